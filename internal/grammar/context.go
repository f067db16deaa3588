// Package grammar parses regex pattern text into an ast.Node tree using the
// combinator primitives.
package grammar

import (
	"fmt"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/internal/delimiter"
	"github.com/KromDaniel/regast/internal/logger"
)

// AtomMode selects how runs of plain characters become atoms.
type AtomMode int

const (
	// AtomCharacter makes every plain character its own atom.
	AtomCharacter AtomMode = iota
	// AtomWord collapses runs of word characters into one atom and drops the
	// bare spaces around them.
	AtomWord
)

func (m AtomMode) String() string {
	switch m {
	case AtomCharacter:
		return "character"
	case AtomWord:
		return "word"
	default:
		return fmt.Sprintf("AtomMode(%d)", int(m))
	}
}

// ParseAtomMode maps "character" or "word" to an AtomMode. The empty string
// selects the default character mode.
func ParseAtomMode(s string) (AtomMode, error) {
	switch s {
	case "", "character":
		return AtomCharacter, nil
	case "word":
		return AtomWord, nil
	}
	return AtomCharacter, fmt.Errorf("unknown atom mode %q", s)
}

// DefaultMaxDepth bounds group nesting when Context.MaxDepth is zero.
const DefaultMaxDepth = 512

// Context is the mutable state of one parse. It must not be shared between
// concurrent parses.
type Context struct {
	Flags    delimiter.Flags
	AtomMode AtomMode
	MaxDepth int
	Logger   *logger.Logger

	// Groups holds capturing groups in the order their closing parenthesis
	// was matched, so nested groups precede the groups enclosing them.
	Groups []*ast.Node

	depth    int
	furthest int
	err      error
}

// NewContext returns a fresh context for a single parse.
func NewContext(mode AtomMode, flags delimiter.Flags) *Context {
	return &Context{Flags: flags, AtomMode: mode}
}

func (ctx *Context) maxDepth() int {
	if ctx.MaxDepth > 0 {
		return ctx.MaxDepth
	}
	return DefaultMaxDepth
}

func (ctx *Context) register(group *ast.Node, offset int) {
	ctx.Groups = append(ctx.Groups, group)
	ctx.Logger.Log("group %d closed at offset %d", len(ctx.Groups), offset)
}

// reach records how far any derivation attempt has consumed, for error reporting.
func (ctx *Context) reach(offset int) {
	if offset > ctx.furthest {
		ctx.furthest = offset
	}
}

// rollback drops groups registered by a failed attempt.
func (ctx *Context) rollback(mark int) {
	if len(ctx.Groups) > mark {
		ctx.Logger.Log("discarding %d group(s) from failed attempt", len(ctx.Groups)-mark)
		ctx.Groups = ctx.Groups[:mark]
	}
}

// group returns the capturing group with the given 1-based ordinal among
// those completed so far.
func (ctx *Context) group(ordinal int) (*ast.Node, bool) {
	if ordinal < 1 || ordinal > len(ctx.Groups) {
		return nil, false
	}
	return ctx.Groups[ordinal-1], true
}
