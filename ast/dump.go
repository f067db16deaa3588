package ast

// Dumped is a serializable view of a tree. Backreference targets are
// recorded by ordinal instead of being expanded a second time.
type Dumped struct {
	Tag      string    `json:"tag" yaml:"tag"`
	Kind     string    `json:"kind" yaml:"kind"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Escaped  bool      `json:"escaped,omitempty" yaml:"escaped,omitempty"`
	Ref      int       `json:"ref,omitempty" yaml:"ref,omitempty"`
	Children []*Dumped `json:"children,omitempty" yaml:"children,omitempty"`
}

// Dump converts n into its serializable view.
func Dump(n *Node) *Dumped {
	d := &Dumped{Tag: n.Tag(), Kind: n.Kind.String()}
	if n.Kind == KindBackref {
		d.Ref = n.Children[0].Value
		return d
	}
	if n.Arity() == 0 {
		d.Text = n.Text
		d.Escaped = n.Escaped
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, Dump(c))
	}
	return d
}
