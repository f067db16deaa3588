// Package ast defines the tree produced by the regast parser and the
// semantic queries that run over it without ever executing a pattern.
package ast

import "fmt"

// Kind identifies the construct a Node represents. The set is closed:
// every query in this package switches over all of it.
type Kind int

const (
	// KindConcat is implicit adjacency, binary and right-associative.
	KindConcat Kind = iota
	// KindAlternate is disjunction (a|b), binary and right-associative.
	KindAlternate
	// KindRange is a character range inside a class (a-z).
	KindRange
	// KindStar, KindPlus and KindQuest are the unbounded quantifiers.
	KindStar
	KindPlus
	KindQuest
	// KindRepeat is bounded repetition: children are lower bound, upper bound, body.
	KindRepeat
	// KindGroup is a capturing group.
	KindGroup
	// KindNonCapture is (?:...).
	KindNonCapture
	// KindLookahead is (?=...).
	KindLookahead
	// KindNegLookahead is (?!...).
	KindNegLookahead
	// KindClass is [...].
	KindClass
	// KindNegClass is [^...].
	KindNegClass
	// KindBackref links to an earlier capturing group: children are ordinal, group.
	KindBackref
	// KindAssertion is a zero-width anchor: ^ $ \b \B.
	KindAssertion
	// KindEscape is a class escape (\d, \w, ...), a control character escape
	// (\n, \t, ...) or an escaped metacharacter.
	KindEscape
	// KindControl is \cX.
	KindControl
	// KindHex is \xHH.
	KindHex
	// KindUnicode is \uHHHH.
	KindUnicode
	// KindDot is the any-character atom.
	KindDot
	// KindLiteral is a literal character, or a run of word characters in word mode.
	KindLiteral
	// KindNumber is a numeric leaf: a repetition bound or a backreference ordinal.
	KindNumber

	numKinds
)

// Unbounded is the upper limit of a repetition with no maximum.
const Unbounded = -1

var kindInfo = [numKinds]struct {
	name  string
	tag   string
	arity int
}{
	KindConcat:       {"Concat", ",", 2},
	KindAlternate:    {"Alternate", "|", 2},
	KindRange:        {"Range", "-", 2},
	KindStar:         {"Star", "*", 1},
	KindPlus:         {"Plus", "+", 1},
	KindQuest:        {"Quest", "?", 1},
	KindRepeat:       {"Repeat", "{", 3},
	KindGroup:        {"Group", "(", 1},
	KindNonCapture:   {"NonCapture", "(?:", 1},
	KindLookahead:    {"Lookahead", "(?=", 1},
	KindNegLookahead: {"NegLookahead", "(?!", 1},
	KindClass:        {"Class", "[", 1},
	KindNegClass:     {"NegClass", "[^", 1},
	KindBackref:      {"Backref", `\`, 2},
	KindAssertion:    {"Assertion", "", 0},
	KindEscape:       {"Escape", "", 0},
	KindControl:      {"Control", "", 0},
	KindHex:          {"Hex", "", 0},
	KindUnicode:      {"Unicode", "", 0},
	KindDot:          {"Dot", ".", 0},
	KindLiteral:      {"Literal", "", 0},
	KindNumber:       {"Number", "", 0},
}

func (k Kind) valid() bool { return k >= 0 && k < numKinds }

// String returns the Go-style name of the kind.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindInfo[k].name
}

// Arity returns the number of children every node of this kind carries.
func (k Kind) Arity() int {
	if !k.valid() {
		panic(fmt.Sprintf("ast: unknown kind %d", int(k)))
	}
	return kindInfo[k].arity
}

// Node is one parsed construct. Nodes are immutable once the parser returns them.
//
// For leaves, Text holds the source text of the construct (or the decimal value
// of a KindNumber). For repetitions Lazy records a trailing non-greedy '?'.
// Escaped marks a KindLiteral written with a leading backslash in the source,
// such as a \1 that names no completed group.
// The second child of a KindBackref is a link to a group owned elsewhere in the
// tree, never a copy.
type Node struct {
	Kind     Kind
	Text     string
	Value    int
	Lazy     bool
	Escaped  bool
	Children []*Node
}

// New builds a node and checks the arity invariant of its kind. A mismatch is
// a programming error and panics.
func New(kind Kind, text string, children ...*Node) *Node {
	if got, want := len(children), kind.Arity(); got != want {
		panic(fmt.Sprintf("ast: %s takes %d children, got %d", kind, want, got))
	}
	for i, c := range children {
		if c == nil {
			panic(fmt.Sprintf("ast: %s child %d is nil", kind, i))
		}
	}
	return &Node{Kind: kind, Text: text, Children: children}
}

// Number builds a KindNumber leaf. Pass Unbounded for an open upper limit.
func Number(v int) *Node {
	n := New(KindNumber, "")
	n.Value = v
	n.Text = "inf"
	if v != Unbounded {
		n.Text = fmt.Sprint(v)
	}
	return n
}

// Literal builds a KindLiteral leaf.
func Literal(text string) *Node { return New(KindLiteral, text) }

// Repetition builds a quantifier node around body. kind must be KindStar,
// KindPlus, KindQuest or KindRepeat; min and max are only read for KindRepeat.
func Repetition(kind Kind, lazy bool, min, max int, body *Node) *Node {
	var n *Node
	switch kind {
	case KindStar, KindPlus, KindQuest:
		n = New(kind, "", body)
	case KindRepeat:
		n = New(kind, "", Number(min), Number(max), body)
	default:
		panic(fmt.Sprintf("ast: %s is not a repetition", kind))
	}
	n.Lazy = lazy
	return n
}

// Backref builds a backreference to group, which must be a completed KindGroup.
func Backref(ordinal int, group *Node) *Node {
	if group == nil || group.Kind != KindGroup {
		panic("ast: backreference target must be a capturing group")
	}
	return New(KindBackref, "", Number(ordinal), group)
}

// Tag returns the textual tag of the node, the vocabulary shared with
// external tree consumers. Leaves are tagged by their text; repetitions
// carry a '?' suffix when lazy.
func (n *Node) Tag() string {
	info := kindInfo[n.Kind]
	if info.arity == 0 && n.Kind != KindDot {
		return n.Text
	}
	if n.Lazy {
		return info.tag + "?"
	}
	return info.tag
}

// Arity is len(n.Children), always equal to n.Kind.Arity().
func (n *Node) Arity() int { return len(n.Children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.Children[i] }

// Body returns the quantified or grouped sub-node for repetitions, groups,
// lookaheads and classes, the referenced group for a backreference, and nil
// for everything else.
func (n *Node) Body() *Node {
	switch n.Kind {
	case KindStar, KindPlus, KindQuest,
		KindGroup, KindNonCapture, KindLookahead, KindNegLookahead,
		KindClass, KindNegClass:
		return n.Children[0]
	case KindRepeat:
		return n.Children[2]
	case KindBackref:
		return n.Children[1]
	default:
		return nil
	}
}

// Walk visits n and its owned descendants in pre-order. Backreference links
// are not followed. Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i, c := range n.Children {
		if n.Kind == KindBackref && i == 1 {
			continue
		}
		Walk(c, fn)
	}
}
