package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDerivation means no derivation consumed the whole pattern.
	ErrNoDerivation = errors.New("no derivation consumes the whole pattern")

	// ErrTooDeep means group nesting exceeded Context.MaxDepth.
	ErrTooDeep = errors.New("group nesting too deep")
)

// SyntaxError reports a pattern the grammar could not consume to its end.
// Offset is the furthest position any derivation attempt reached.
type SyntaxError struct {
	Pattern string
	Offset  int
	Err     error
}

func (e *SyntaxError) Error() string {
	if e.Offset >= len(e.Pattern) {
		return fmt.Sprintf("cannot parse %q: %v (reached end of pattern)", e.Pattern, e.Err)
	}
	return fmt.Sprintf("cannot parse %q: %v (stopped at offset %d, %q)",
		e.Pattern, e.Err, e.Offset, e.Pattern[e.Offset:])
}

func (e *SyntaxError) Unwrap() error { return e.Err }
