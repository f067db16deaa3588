// Package regast parses regular expression literals into syntax trees and
// answers structural questions about them without ever running them.
package regast

import (
	"fmt"
	"io"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/internal/delimiter"
	"github.com/KromDaniel/regast/internal/grammar"
	"github.com/KromDaniel/regast/internal/logger"
)

// AtomMode selects how runs of plain characters become atoms.
type AtomMode = grammar.AtomMode

const (
	// AtomCharacter makes every plain character its own atom (the default).
	AtomCharacter = grammar.AtomCharacter
	// AtomWord collapses runs of word characters into single atoms.
	AtomWord = grammar.AtomWord
)

// ParseAtomMode maps "character" or "word" to an AtomMode.
func ParseAtomMode(s string) (AtomMode, error) { return grammar.ParseAtomMode(s) }

// Flags are the modifiers that followed a /pattern/flags literal.
type Flags = delimiter.Flags

// Errors returned by Parse, for use with errors.Is.
var (
	ErrNoDerivation = grammar.ErrNoDerivation
	ErrTooDeep      = grammar.ErrTooDeep
)

// Options configures parsing.
type Options struct {
	// AtomMode selects character (default) or word atoms
	AtomMode AtomMode

	// MaxDepth bounds group nesting; zero uses grammar.DefaultMaxDepth
	MaxDepth int

	// Verbose traces group registration and backreference decisions to stderr
	Verbose bool

	// LogOutput receives verbose traces instead of stderr
	LogOutput io.Writer
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.AtomMode != AtomCharacter && o.AtomMode != AtomWord {
		return fmt.Errorf("unknown atom mode %d", int(o.AtomMode))
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max depth cannot be negative")
	}
	return nil
}

// Pattern is a parsed pattern together with the state its parse produced.
type Pattern struct {
	// Source is the input exactly as given to Parse
	Source string

	// Body is Source without delimiters and flags
	Body string

	// Root is the syntax tree of Body
	Root *ast.Node

	flags     Flags
	delimited bool
	groups    []*ast.Node
	mode      AtomMode
}

// Parse parses input, which is either a bare pattern or a /pattern/flags
// literal, and requires the whole pattern to be consumed.
func Parse(input string, opts Options) (*Pattern, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	body, flags, delimited := delimiter.Split(input)

	ctx := grammar.NewContext(opts.AtomMode, flags)
	ctx.MaxDepth = opts.MaxDepth
	ctx.Logger = logger.New(opts.Verbose)
	if opts.LogOutput != nil {
		ctx.Logger.SetOutput(opts.LogOutput)
	}

	root, err := grammar.Parse(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern %q: %w", input, err)
	}

	return &Pattern{
		Source:    input,
		Body:      body,
		Root:      root,
		flags:     ctx.Flags,
		delimited: delimited,
		groups:    ctx.Groups,
		mode:      opts.AtomMode,
	}, nil
}

// MustParse is like Parse but panics if the pattern cannot be parsed.
func MustParse(input string, opts Options) *Pattern {
	p, err := Parse(input, opts)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) IgnoreCase() bool { return p.flags.IgnoreCase }
func (p *Pattern) Multiline() bool  { return p.flags.Multiline }
func (p *Pattern) Global() bool     { return p.flags.Global }

// Flags returns all flags at once.
func (p *Pattern) Flags() Flags { return p.flags }

// Delimited reports whether the input was a /pattern/flags literal.
func (p *Pattern) Delimited() bool { return p.delimited }

// AtomMode returns the mode the pattern was parsed with.
func (p *Pattern) AtomMode() AtomMode { return p.mode }

// MatchGroups returns the capturing groups in the order they closed, so a
// nested group comes before the group enclosing it.
func (p *Pattern) MatchGroups() []*ast.Node {
	out := make([]*ast.Node, len(p.groups))
	copy(out, p.groups)
	return out
}

// MinimumLength returns the length of the shortest string the pattern can match.
func (p *Pattern) MinimumLength() int { return ast.MinimumLength(p.Root) }

// String re-serializes the pattern, restoring delimiters and flags when the
// input had them.
func (p *Pattern) String() string {
	if !p.delimited {
		return p.Root.String()
	}
	return "/" + p.Root.String() + "/" + p.flags.String()
}
