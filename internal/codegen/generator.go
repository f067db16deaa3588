package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"os"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/pkg/regast"
	"github.com/dave/jennifer/jen"
)

// Config holds the configuration for code generation.
type Config struct {
	Pattern    string
	Name       string
	Package    string
	OutputFile string
	Options    regast.Options
}

// Validate checks if the config is complete.
func (c Config) Validate() error {
	if c.Pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if c.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	return nil
}

// Generator turns a parsed pattern into a Go file declaring <Name>Source
// and a <Name>() constructor that rebuilds its tree.
type Generator struct {
	config  Config
	pattern *regast.Pattern
	file    *jen.File
	vars    map[*ast.Node]string
	body    []jen.Code
}

// New parses the configured pattern and prepares a generator for it.
func New(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p, err := regast.Parse(config.Pattern, config.Options)
	if err != nil {
		return nil, err
	}
	return &Generator{
		config:  config,
		pattern: p,
		file:    jen.NewFile(config.Package),
		vars:    map[*ast.Node]string{},
	}, nil
}

// Render writes the formatted Go source to w.
func (g *Generator) Render(w io.Writer) error {
	if err := g.build(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := g.file.Render(&buf); err != nil {
		return fmt.Errorf("failed to render file: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format file: %w", err)
	}
	_, err = w.Write(formatted)
	return err
}

// Generate writes the Go source to the configured output file.
func (g *Generator) Generate() error {
	if g.config.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	var buf bytes.Buffer
	if err := g.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(g.config.OutputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (g *Generator) build() error {
	name := UpperFirst(g.config.Name)

	g.file = jen.NewFile(g.config.Package)
	g.vars = map[*ast.Node]string{}
	g.body = nil

	g.file.HeaderComment(fmt.Sprintf("Code generated by regast for pattern: %s", g.config.Pattern))
	g.file.HeaderComment("DO NOT EDIT.")

	g.file.Commentf("%s%s is the pattern %s was generated from.", name, SourceSuffix, name)
	g.file.Const().Id(name + SourceSuffix).Op("=").Lit(g.config.Pattern)

	root, err := g.emit(g.pattern.Root)
	if err != nil {
		return err
	}
	g.body = append(g.body, jen.Return(jen.Id(root)))

	g.file.Commentf("%s rebuilds the syntax tree of %s%s.", name, name, SourceSuffix)
	g.file.Func().Id(name).Params().Op("*").Qual(astPath, "Node").Block(g.body...)
	return nil
}

// emit declares n after its children (post-order) and returns its variable.
// A backreference reuses the variable of the group it links to, which
// always precedes it.
func (g *Generator) emit(n *ast.Node) (string, error) {
	var args []jen.Code
	switch n.Kind {
	case ast.KindNumber:
		v := jen.Lit(n.Value)
		if n.Value == ast.Unbounded {
			v = jen.Qual(astPath, "Unbounded")
		}
		return g.declare(n, jen.Qual(astPath, "Number").Call(v)), nil
	case ast.KindBackref:
		ord, err := g.emit(n.Children[0])
		if err != nil {
			return "", err
		}
		group, ok := g.vars[n.Children[1]]
		if !ok {
			return "", fmt.Errorf("backreference \\%d emitted before its group", n.Children[0].Value)
		}
		args = []jen.Code{jen.Id(ord), jen.Id(group)}
	default:
		for _, child := range n.Children {
			v, err := g.emit(child)
			if err != nil {
				return "", err
			}
			args = append(args, jen.Id(v))
		}
	}

	call := append([]jen.Code{jen.Qual(astPath, "Kind"+n.Kind.String()), jen.Lit(n.Text)}, args...)
	v := g.declare(n, jen.Qual(astPath, "New").Call(call...))
	if n.Lazy {
		g.body = append(g.body, jen.Id(v).Dot("Lazy").Op("=").True())
	}
	if n.Escaped {
		g.body = append(g.body, jen.Id(v).Dot("Escaped").Op("=").True())
	}
	return v, nil
}

func (g *Generator) declare(n *ast.Node, value *jen.Statement) string {
	v := NodeVar(len(g.vars))
	g.vars[n] = v
	g.body = append(g.body, jen.Id(v).Op(":=").Add(value))
	return v
}
