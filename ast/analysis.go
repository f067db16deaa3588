package ast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Class is the structural family a node belongs to.
type Class int

const (
	ClassAtom Class = iota
	ClassAssertion
	ClassRepetition
	ClassDisjunction
	ClassConcatenation
	ClassCapture
	ClassNonCapture
	ClassLookahead
	ClassCharClass
	ClassRange
	ClassBackref
)

var classNames = [...]string{
	ClassAtom:          "Atom",
	ClassAssertion:     "Assertion",
	ClassRepetition:    "Repetition",
	ClassDisjunction:   "Disjunction",
	ClassConcatenation: "Concatenation",
	ClassCapture:       "Capture",
	ClassNonCapture:    "NonCapture",
	ClassLookahead:     "Lookahead",
	ClassCharClass:     "CharClass",
	ClassRange:         "Range",
	ClassBackref:       "Backref",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Class is the single dispatch every predicate below is derived from.
func (n *Node) Class() Class {
	switch n.Kind {
	case KindConcat:
		return ClassConcatenation
	case KindAlternate:
		return ClassDisjunction
	case KindRange:
		return ClassRange
	case KindStar, KindPlus, KindQuest, KindRepeat:
		return ClassRepetition
	case KindGroup:
		return ClassCapture
	case KindNonCapture:
		return ClassNonCapture
	case KindLookahead, KindNegLookahead:
		return ClassLookahead
	case KindClass, KindNegClass:
		return ClassCharClass
	case KindBackref:
		return ClassBackref
	case KindAssertion:
		return ClassAssertion
	case KindEscape, KindControl, KindHex, KindUnicode, KindDot, KindLiteral, KindNumber:
		return ClassAtom
	}
	panic(fmt.Sprintf("ast: unknown kind %d", int(n.Kind)))
}

// IsAtom reports whether n is a leaf.
func (n *Node) IsAtom() bool {
	c := n.Class()
	return c == ClassAtom || c == ClassAssertion
}

func (n *Node) IsAssertion() bool     { return n.Class() == ClassAssertion }
func (n *Node) IsRepetition() bool    { return n.Class() == ClassRepetition }
func (n *Node) IsDisjunction() bool   { return n.Class() == ClassDisjunction }
func (n *Node) IsConcatenation() bool { return n.Class() == ClassConcatenation }
func (n *Node) IsCapturingGroup() bool {
	return n.Class() == ClassCapture
}

// IsGroup reports whether n is a capturing or non-capturing group.
func (n *Node) IsGroup() bool {
	c := n.Class()
	return c == ClassCapture || c == ClassNonCapture
}

func (n *Node) IsLookahead() bool      { return n.Class() == ClassLookahead }
func (n *Node) IsCharacterClass() bool { return n.Class() == ClassCharClass }
func (n *Node) IsRange() bool          { return n.Class() == ClassRange }
func (n *Node) IsBackreference() bool  { return n.Class() == ClassBackref }

// ErrNotRepetition is matched by the UsageError returned when a bound is
// requested from a node that is not a repetition.
var ErrNotRepetition = errors.New("node is not a repetition")

// UsageError reports an operation applied to a node of the wrong shape.
type UsageError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("ast: %s on %s: %v", e.Op, e.Kind, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

// LowerLimit returns the minimum repetition count of a repetition node.
func (n *Node) LowerLimit() (int, error) {
	lo, _, err := n.limits("LowerLimit")
	return lo, err
}

// UpperLimit returns the maximum repetition count of a repetition node, or
// Unbounded.
func (n *Node) UpperLimit() (int, error) {
	_, hi, err := n.limits("UpperLimit")
	return hi, err
}

func (n *Node) limits(op string) (int, int, error) {
	switch n.Kind {
	case KindPlus:
		return 1, Unbounded, nil
	case KindStar:
		return 0, Unbounded, nil
	case KindQuest:
		return 0, 1, nil
	case KindRepeat:
		return n.Children[0].Value, n.Children[1].Value, nil
	}
	return 0, 0, &UsageError{Op: op, Kind: n.Kind, Err: ErrNotRepetition}
}

// MinimumLength returns the smallest number of characters any string matched
// by n can have. Backreferences contribute the minimum of the group they
// reference; links only point backwards, so the recursion terminates.
func MinimumLength(n *Node) int {
	switch n.Kind {
	case KindAssertion, KindLookahead, KindNegLookahead, KindNumber:
		return 0
	case KindEscape, KindControl, KindHex, KindUnicode, KindClass, KindNegClass, KindRange:
		return 1
	case KindStar, KindPlus, KindQuest, KindRepeat:
		lo, _, _ := n.limits("MinimumLength")
		return mulSat(lo, MinimumLength(n.Body()))
	case KindGroup, KindNonCapture:
		return MinimumLength(n.Children[0])
	case KindBackref:
		return MinimumLength(n.Children[1])
	case KindAlternate:
		return min(MinimumLength(n.Children[0]), MinimumLength(n.Children[1]))
	case KindConcat:
		return addSat(MinimumLength(n.Children[0]), MinimumLength(n.Children[1]))
	case KindDot:
		return 1
	case KindLiteral:
		return utf8.RuneCountInString(n.Text)
	}
	panic(fmt.Sprintf("ast: unknown kind %d", int(n.Kind)))
}

// mulSat and addSat clamp at math.MaxInt so huge bounds never wrap negative.
func mulSat(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// String reconstructs pattern source equivalent to n. Multi-character literal
// runs are wrapped in (?:...) so a following quantifier keeps applying to the
// whole run. Literal '{' and '/' are escaped outside classes so they cannot
// re-parse as a quantifier or a delimiter.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, false)
	return b.String()
}

func (n *Node) write(b *strings.Builder, inClass bool) {
	switch n.Kind {
	case KindConcat:
		n.Children[0].write(b, inClass)
		n.Children[1].write(b, inClass)
	case KindAlternate:
		n.Children[0].write(b, inClass)
		b.WriteByte('|')
		n.Children[1].write(b, inClass)
	case KindRange:
		n.Children[0].write(b, inClass)
		b.WriteByte('-')
		n.Children[1].write(b, inClass)
	case KindStar, KindPlus, KindQuest:
		n.Children[0].write(b, inClass)
		b.WriteString(kindInfo[n.Kind].tag)
		n.writeLazy(b)
	case KindRepeat:
		n.Children[2].write(b, inClass)
		lo, hi := n.Children[0].Value, n.Children[1].Value
		switch hi {
		case lo:
			fmt.Fprintf(b, "{%d}", lo)
		case Unbounded:
			fmt.Fprintf(b, "{%d,}", lo)
		default:
			fmt.Fprintf(b, "{%d,%d}", lo, hi)
		}
		n.writeLazy(b)
	case KindGroup, KindNonCapture, KindLookahead, KindNegLookahead:
		b.WriteString(kindInfo[n.Kind].tag)
		n.Children[0].write(b, inClass)
		b.WriteByte(')')
	case KindClass, KindNegClass:
		b.WriteString(kindInfo[n.Kind].tag)
		n.Children[0].write(b, true)
		b.WriteByte(']')
	case KindBackref:
		b.WriteByte('\\')
		b.WriteString(n.Children[0].Text)
	case KindLiteral:
		switch {
		case utf8.RuneCountInString(n.Text) > 1:
			b.WriteString("(?:")
			b.WriteString(n.Text)
			b.WriteByte(')')
		case n.Escaped, !inClass && (n.Text == "{" || n.Text == "/"):
			b.WriteByte('\\')
			b.WriteString(n.Text)
		default:
			b.WriteString(n.Text)
		}
	case KindDot:
		b.WriteByte('.')
	case KindAssertion, KindEscape, KindControl, KindHex, KindUnicode, KindNumber:
		b.WriteString(n.Text)
	default:
		panic(fmt.Sprintf("ast: unknown kind %d", int(n.Kind)))
	}
}

func (n *Node) writeLazy(b *strings.Builder) {
	if n.Lazy {
		b.WriteByte('?')
	}
}

// Equal reports whether a and b have the same shape. Backreferences compare
// by ordinal rather than by walking the referenced group again.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Text != b.Text || a.Value != b.Value || a.Lazy != b.Lazy || a.Escaped != b.Escaped {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if a.Kind == KindBackref {
		return Equal(a.Children[0], b.Children[0])
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
