package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regast.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
atom_mode = "word"
max_depth = 64
verbose = true
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{AtomMode: "word", MaxDepth: 64, Verbose: true, Format: FormatJSON}, cfg)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "verbose = true\n"))
	require.NoError(t, err)
	assert.Equal(t, "character", cfg.AtomMode)
	assert.Equal(t, FormatText, cfg.Format)
	assert.True(t, cfg.Verbose)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", "atom_mode = \n"},
		{"bad mode", `atom_mode = "line"`},
		{"bad format", `format = "xml"`},
		{"negative depth", "max_depth = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
