// Package config loads CLI defaults from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Output formats understood by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds settings that may come from a file and be overridden by flags.
type Config struct {
	AtomMode string `toml:"atom_mode"`
	MaxDepth int    `toml:"max_depth"`
	Verbose  bool   `toml:"verbose"`
	Format   string `toml:"format"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{AtomMode: "character", Format: FormatText}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks if the config is valid.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch c.AtomMode {
	case "", "character", "word":
	default:
		return fmt.Errorf("unknown atom mode %q", c.AtomMode)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth cannot be negative")
	}
	return nil
}
