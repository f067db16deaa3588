// Package combinator provides the backtracking parser primitives the regex
// grammar is built from. A Parser never panics or returns an error for an
// ordinary mismatch: it returns a failed Result positioned where it started.
package combinator

import (
	"strings"
	"unicode/utf8"
)

// Cursor is an immutable position in the source text. Every successful
// step returns a new Cursor.
type Cursor struct {
	src string
	pos int
}

// NewCursor returns a cursor at the start of src.
func NewCursor(src string) Cursor { return Cursor{src: src} }

// Pos returns the byte offset of the cursor.
func (c Cursor) Pos() int { return c.pos }

// AtEnd reports whether no input remains.
func (c Cursor) AtEnd() bool { return c.pos >= len(c.src) }

// Rest returns the unconsumed input.
func (c Cursor) Rest() string { return c.src[c.pos:] }

// Peek returns the next character, or utf8.RuneError and false at end of input.
func (c Cursor) Peek() (rune, bool) {
	if c.AtEnd() {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.pos:])
	return r, true
}

// Advance moves n characters forward. ok is false if fewer remain.
func (c Cursor) Advance(n int) (next Cursor, ok bool) {
	pos := c.pos
	for i := 0; i < n; i++ {
		if pos >= len(c.src) {
			return c, false
		}
		_, size := utf8.DecodeRuneInString(c.src[pos:])
		pos += size
	}
	return Cursor{src: c.src, pos: pos}, true
}

// Between returns the text consumed from c up to next.
func (c Cursor) Between(next Cursor) string { return c.src[c.pos:next.pos] }

// Result is the outcome of applying a Parser.
type Result[T any] struct {
	Value T
	Next  Cursor
	OK    bool
}

// Success builds a successful result.
func Success[T any](v T, next Cursor) Result[T] {
	return Result[T]{Value: v, Next: next, OK: true}
}

// Failure builds a failed result that leaves the cursor at at.
func Failure[T any](at Cursor) Result[T] {
	return Result[T]{Next: at}
}

// Parser consumes a prefix of the input at a cursor.
type Parser[T any] func(Cursor) Result[T]

// CharIn consumes one character if it belongs to set.
func CharIn(set string) Parser[string] {
	return func(c Cursor) Result[string] {
		r, ok := c.Peek()
		if !ok || !strings.ContainsRune(set, r) {
			return Failure[string](c)
		}
		next, _ := c.Advance(1)
		return Success(c.Between(next), next)
	}
}

// Literal consumes s exactly.
func Literal(s string) Parser[string] {
	return func(c Cursor) Result[string] {
		if !strings.HasPrefix(c.Rest(), s) {
			return Failure[string](c)
		}
		next := Cursor{src: c.src, pos: c.pos + len(s)}
		return Success(s, next)
	}
}

// Consume takes the next n characters, whatever they are.
func Consume(n int) Parser[string] {
	return func(c Cursor) Result[string] {
		next, ok := c.Advance(n)
		if !ok {
			return Failure[string](c)
		}
		return Success(c.Between(next), next)
	}
}

// Not consumes n characters provided input remains and guard does not
// match here. It is how catch-all rules exclude delimiters.
func Not[T any](n int, guard Parser[T]) Parser[string] {
	consume := Consume(n)
	return func(c Cursor) Result[string] {
		if c.AtEnd() || guard(c).OK {
			return Failure[string](c)
		}
		return consume(c)
	}
}

// Alt returns the result of the first alternative that succeeds. Order
// matters: put longer forms before the catch-alls that would shadow them.
func Alt[T any](ps ...Parser[T]) Parser[T] {
	return func(c Cursor) Result[T] {
		for _, p := range ps {
			if r := p(c); r.OK {
				return r
			}
		}
		return Failure[T](c)
	}
}

// Seq applies each parser in turn and fails, discarding partial results, on
// the first failure.
func Seq[T any](ps ...Parser[T]) Parser[[]T] {
	return func(c Cursor) Result[[]T] {
		out := make([]T, 0, len(ps))
		cur := c
		for _, p := range ps {
			r := p(cur)
			if !r.OK {
				return Failure[[]T](c)
			}
			out = append(out, r.Value)
			cur = r.Next
		}
		return Success(out, cur)
	}
}

// Many1 applies p as many times as it succeeds, at least once. Iteration
// stops when p succeeds without consuming input.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return func(c Cursor) Result[[]T] {
		var out []T
		cur := c
		for {
			r := p(cur)
			if !r.OK {
				break
			}
			out = append(out, r.Value)
			if r.Next.pos == cur.pos {
				cur = r.Next
				break
			}
			cur = r.Next
		}
		if len(out) == 0 {
			return Failure[[]T](c)
		}
		return Success(out, cur)
	}
}

// Optional never fails: it yields def without consuming when p does not match.
func Optional[T any](p Parser[T], def T) Parser[T] {
	return func(c Cursor) Result[T] {
		if r := p(c); r.OK {
			return r
		}
		return Success(def, c)
	}
}

// Map transforms the value of a successful result.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(c Cursor) Result[U] {
		r := p(c)
		if !r.OK {
			return Failure[U](c)
		}
		return Success(f(r.Value), r.Next)
	}
}

// Text discards p's value and yields the input it consumed.
func Text[T any](p Parser[T]) Parser[string] {
	return func(c Cursor) Result[string] {
		r := p(c)
		if !r.OK {
			return Failure[string](c)
		}
		return Success(c.Between(r.Next), r.Next)
	}
}
