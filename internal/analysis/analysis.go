// Package analysis derives structural labels for a parsed pattern.
package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/internal/delimiter"
)

// Result contains the results of pattern analysis.
type Result struct {
	// FeatureLabels are derived from pattern structure (sorted alphabetically)
	FeatureLabels []string `json:"feature_labels" yaml:"feature_labels"`

	Canonical     string          `json:"canonical" yaml:"canonical"`
	GroupCount    int             `json:"group_count" yaml:"group_count"`
	MinimumLength int             `json:"minimum_length" yaml:"minimum_length"`
	Flags         delimiter.Flags `json:"flags" yaml:"flags"`
}

// Analyze labels root. source is the pattern text root was parsed from and
// groups the capturing groups registered while parsing it.
func Analyze(source string, root *ast.Node, groups []*ast.Node, flags delimiter.Flags) *Result {
	return &Result{
		FeatureLabels: FeatureLabels(source, root),
		Canonical:     root.String(),
		GroupCount:    len(groups),
		MinimumLength: ast.MinimumLength(root),
		Flags:         flags,
	}
}

// FeatureLabels extracts feature labels from the pattern structure.
// Labels are sorted alphabetically; a pattern with none is "Simple".
func FeatureLabels(source string, root *ast.Node) []string {
	seen := map[string]bool{}
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Class() {
		case ast.ClassDisjunction:
			seen["Alternation"] = true
		case ast.ClassAssertion:
			if n.Text == `\b` || n.Text == `\B` {
				seen["WordBoundary"] = true
			} else {
				seen["Anchored"] = true
			}
		case ast.ClassBackref:
			seen["Backreference"] = true
		case ast.ClassCapture:
			seen["Captures"] = true
		case ast.ClassCharClass:
			seen["CharClass"] = true
			// Members of a class are not features of their own.
			return false
		case ast.ClassLookahead:
			seen["Lookahead"] = true
		case ast.ClassNonCapture:
			seen["NonCapturing"] = true
		case ast.ClassRepetition:
			seen["Quantifiers"] = true
			if n.Lazy {
				seen["Lazy"] = true
			}
		case ast.ClassAtom:
			if n.Kind == ast.KindEscape && isClassEscape(n.Text) {
				seen["CharClass"] = true
			}
		}
		return true
	})

	if hasMultibyte(source) {
		seen["Multibyte"] = true
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	if len(labels) == 0 {
		labels = append(labels, "Simple")
	}
	sort.Strings(labels)
	return labels
}

func isClassEscape(text string) bool {
	return len(text) == 2 && strings.ContainsRune("dDwWsS", rune(text[1]))
}

func hasMultibyte(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
