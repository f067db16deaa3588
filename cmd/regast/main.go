// Command regast parses regular expression literals and reports their structure.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/internal/codegen"
	"github.com/KromDaniel/regast/internal/config"
	"github.com/KromDaniel/regast/pkg/regast"
	"gopkg.in/yaml.v3"
)

const (
	appVersion = "1.0.0"
	appName    = "regast"
)

// arrayFlags collects every value of a repeatable flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// report is what the json and yaml formats print per pattern.
type report struct {
	Pattern  string                 `json:"pattern" yaml:"pattern"`
	Analysis *regast.AnalysisResult `json:"analysis" yaml:"analysis"`
	Tree     *ast.Dumped            `json:"tree" yaml:"tree"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var patterns arrayFlags
	fs.Var(&patterns, "pattern", "Pattern to parse, bare or /pattern/flags (repeatable)")
	configPath := fs.String("config", "", "TOML file with default settings")
	mode := fs.String("mode", "character", "Atom mode: character or word")
	format := fs.String("format", config.FormatText, "Output format: text, json or yaml")
	maxDepth := fs.Int("max-depth", 0, "Maximum group nesting (0 = default)")
	verbose := fs.Bool("verbose", false, "Trace parse decisions to stderr")
	gen := fs.Bool("gen", false, "Generate Go source rebuilding the tree of the first pattern")
	name := fs.String("name", "", "Name of the generated constructor (with -gen)")
	pkg := fs.String("package", "main", "Package of the generated file (with -gen)")
	output := fs.String("output", "", "Output file for -gen (default: stdout)")
	version := fs.Bool("version", false, "Print version information")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Fprintf(stdout, "%s version %s\n", appName, appVersion)
		return 0
	}
	patterns = append(patterns, fs.Args()...)
	if len(patterns) == 0 {
		fmt.Fprintf(stderr, "Error: at least one -pattern is required\n\n")
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.AtomMode = *mode
		case "format":
			cfg.Format = *format
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	atomMode, err := regast.ParseAtomMode(cfg.AtomMode)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	opts := regast.Options{
		AtomMode:  atomMode,
		MaxDepth:  cfg.MaxDepth,
		Verbose:   cfg.Verbose,
		LogOutput: stderr,
	}

	if *gen {
		if err := generate(patterns[0], *name, *pkg, *output, opts, stdout); err != nil {
			fmt.Fprintf(stderr, "Error generating code: %v\n", err)
			return 1
		}
		return 0
	}

	status := 0
	for _, pattern := range patterns {
		p, err := regast.Parse(pattern, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		if err := printReport(stdout, cfg.Format, p); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return status
}

func generate(pattern, name, pkg, output string, opts regast.Options, stdout io.Writer) error {
	if name == "" {
		return fmt.Errorf("-name is required with -gen")
	}
	g, err := codegen.New(codegen.Config{
		Pattern:    pattern,
		Name:       name,
		Package:    pkg,
		OutputFile: output,
		Options:    opts,
	})
	if err != nil {
		return err
	}
	if output == "" {
		return g.Render(stdout)
	}
	return g.Generate()
}

func printReport(w io.Writer, format string, p *regast.Pattern) error {
	r := report{Pattern: p.Source, Analysis: p.Analyze(), Tree: ast.Dump(p.Root)}

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case config.FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "---\n%s", out)
		return err
	}

	fmt.Fprintf(w, "Pattern:        %s\n", r.Pattern)
	fmt.Fprintf(w, "Canonical:      %s\n", p.String())
	fmt.Fprintf(w, "Minimum length: %d\n", r.Analysis.MinimumLength)
	fmt.Fprintf(w, "Groups:         %d\n", r.Analysis.GroupCount)
	for i, g := range p.MatchGroups() {
		fmt.Fprintf(w, "  %d: %s\n", i+1, g.String())
	}
	fmt.Fprintf(w, "Flags:          %q\n", p.Flags().String())
	fmt.Fprintf(w, "Features:       %s\n", strings.Join(r.Analysis.FeatureLabels, ", "))
	return nil
}
