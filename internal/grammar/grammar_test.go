package grammar

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KromDaniel/regast/ast"
	"github.com/KromDaniel/regast/internal/delimiter"
	"github.com/KromDaniel/regast/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, mode AtomMode, pattern string) (*ast.Node, *Context) {
	t.Helper()
	ctx := NewContext(mode, delimiter.Flags{})
	root, err := Parse(ctx, pattern)
	require.NoError(t, err, "pattern %q", pattern)
	return root, ctx
}

// tags flattens the tree in pre-order into its tag vocabulary.
func tags(n *ast.Node) []string {
	var out []string
	ast.Walk(n, func(n *ast.Node) bool {
		out = append(out, n.Tag())
		return true
	})
	return out
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"a", []string{"a"}},
		{"ab", []string{",", "a", "b"}},
		{"abc", []string{",", "a", ",", "b", "c"}},
		{"a|b|c", []string{"|", "a", "|", "b", "c"}},
		{"ab|c", []string{"|", ",", "a", "b", "c"}},
		{"a*", []string{"*", "a"}},
		{"a+?", []string{"+?", "a"}},
		{"a?", []string{"?", "a"}},
		{"a{3}", []string{"{", "3", "3", "a"}},
		{"a{3,}", []string{"{", "3", "inf", "a"}},
		{"a{3,5}?", []string{"{?", "3", "5", "a"}},
		{"(a)", []string{"(", "a"}},
		{"(?:a)", []string{"(?:", "a"}},
		{"(?=a)", []string{"(?=", "a"}},
		{"(?!a)", []string{"(?!", "a"}},
		{"[a-z]", []string{"[", "-", "a", "z"}},
		{"[^a-z]", []string{"[^", "-", "a", "z"}},
		{"[-abc]", []string{"[", ",", "-", ",", "a", ",", "b", "c"}},
		{"[a-]", []string{"[", ",", "a", "-"}},
		{`[\]x]`, []string{"[", ",", `\]`, "x"}},
		{`^a$`, []string{",", "^", ",", "a", "$"}},
		{`\bx\B`, []string{",", `\b`, ",", "x", `\B`}},
		{`\d\.`, []string{",", `\d`, `\.`}},
		{`\/`, []string{`\/`}},
		{`\cJ`, []string{`\cJ`}},
		{`\x41`, []string{`\x41`}},
		{`\u00e9`, []string{`\u00e9`}},
		{`\0`, []string{`\0`}},
		{".", []string{"."}},
		{"a{x}", []string{",", "a", ",", "{", ",", "x", "}"}},
		{"日本", []string{",", "日", "本"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			root, _ := parse(t, AtomCharacter, tt.pattern)
			assert.Equal(t, tt.want, tags(root))
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []string{
		"",
		"a)",
		"(a",
		"((a)",
		"a|",
		"|a",
		"*a",
		"a**",
		"a??",
		"[]",
		"[a",
		"()",
		`a\`,
		`\q`,
		"(?<n>a)",
	}

	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			ctx := NewContext(AtomCharacter, delimiter.Flags{})
			_, err := Parse(ctx, pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoDerivation))

			var syn *SyntaxError
			require.True(t, errors.As(err, &syn))
			assert.Equal(t, pattern, syn.Pattern)
			assert.Contains(t, err.Error(), pattern)
		})
	}
}

func TestSyntaxErrorOffset(t *testing.T) {
	ctx := NewContext(AtomCharacter, delimiter.Flags{})
	_, err := Parse(ctx, "ab)c")

	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 2, syn.Offset)
	assert.Contains(t, err.Error(), `")c"`)
}

func TestSyntaxErrorFurthestOffset(t *testing.T) {
	tests := []struct {
		pattern string
		offset  int
	}{
		{"(a", 2},
		{"x(ab|c", 6},
		{"[ab", 3},
		{"a|", 1},
		{"ab)c", 2},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(NewContext(AtomCharacter, delimiter.Flags{}), tt.pattern)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn))
			assert.Equal(t, tt.offset, syn.Offset)
		})
	}

	_, err := Parse(NewContext(AtomCharacter, delimiter.Flags{}), "(a")
	assert.Contains(t, err.Error(), "reached end of pattern")
}

func TestGroupRegistrationOrder(t *testing.T) {
	root, ctx := parse(t, AtomCharacter, "((a)(b))")

	require.Len(t, ctx.Groups, 3)
	assert.Same(t, root, ctx.Groups[2], "outer group closes last")
	assert.Equal(t, "(a)", ctx.Groups[0].String())
	assert.Equal(t, "(b)", ctx.Groups[1].String())
	assert.Equal(t, "((a)(b))", ctx.Groups[2].String())
}

func TestNonCapturingGroupsDoNotRegister(t *testing.T) {
	_, ctx := parse(t, AtomCharacter, "(?:a)(?=b)(?!c)(d)")
	require.Len(t, ctx.Groups, 1)
	assert.Equal(t, "(d)", ctx.Groups[0].String())
}

func TestBackreference(t *testing.T) {
	root, ctx := parse(t, AtomCharacter, `(a)(b)\1`)

	backref := root.Child(1).Child(1)
	require.True(t, backref.IsBackreference())
	assert.Equal(t, 1, backref.Child(0).Value)
	assert.Same(t, ctx.Groups[0], backref.Child(1), "backreference links, it does not copy")
	assert.Equal(t, "a", backref.Child(1).Child(0).Text)
}

func TestBackreferenceWithoutGroups(t *testing.T) {
	root, ctx := parse(t, AtomCharacter, `\1`)
	assert.Empty(t, ctx.Groups)
	assert.False(t, root.IsBackreference())
	assert.Equal(t, ast.KindLiteral, root.Kind)
	assert.Equal(t, "1", root.Tag())
	assert.True(t, root.Escaped)
	assert.Equal(t, 1, ast.MinimumLength(root))
	assert.Equal(t, `\1`, root.String())

	root, _ = parse(t, AtomCharacter, `a{\1}`)
	assert.Equal(t, `a\{\1}`, root.String())
}

func TestBackreferenceToOpenGroup(t *testing.T) {
	root, _ := parse(t, AtomCharacter, `(a\1)`)
	inner := root.Child(0).Child(1)
	assert.False(t, inner.IsBackreference(), "a group is only referable once closed")
}

func TestTwoDigitBackreference(t *testing.T) {
	eleven := strings.Repeat("(x)", 11)

	root, ctx := parse(t, AtomCharacter, eleven+`\10`)
	require.Len(t, ctx.Groups, 11)
	last := lastTerm(root)
	require.True(t, last.IsBackreference())
	assert.Equal(t, 10, last.Child(0).Value)
	assert.Same(t, ctx.Groups[9], last.Child(1))

	three := strings.Repeat("(x)", 3)
	root, ctx = parse(t, AtomCharacter, three+`\10`)
	require.Len(t, ctx.Groups, 3)

	// ... (x) , [ \1 , 0 ]
	tail := root.Child(1).Child(1).Child(1)
	require.Equal(t, ast.KindConcat, tail.Kind)
	require.True(t, tail.Child(0).IsBackreference())
	assert.Equal(t, 1, tail.Child(0).Child(0).Value)
	assert.Same(t, ctx.Groups[0], tail.Child(0).Child(1))
	assert.Equal(t, "0", tail.Child(1).Text)
}

func lastTerm(n *ast.Node) *ast.Node {
	for n.Kind == ast.KindConcat {
		n = n.Child(1)
	}
	return n
}

func TestWordMode(t *testing.T) {
	root, _ := parse(t, AtomWord, "foo bar+")

	require.True(t, root.IsConcatenation())
	assert.Equal(t, "foo", root.Child(0).Text)
	plus := root.Child(1)
	require.Equal(t, ast.KindPlus, plus.Kind)
	assert.Equal(t, "bar", plus.Child(0).Text)

	for _, tag := range tags(root) {
		assert.NotContains(t, tag, " ")
	}
}

func TestWordModeFallsBackToCharacters(t *testing.T) {
	root, _ := parse(t, AtomWord, "ab-cd|x")
	assert.Equal(t, []string{"|", ",", "ab", ",", "-", "cd", "x"}, tags(root))
}

func TestMaxDepth(t *testing.T) {
	ctx := NewContext(AtomCharacter, delimiter.Flags{})
	ctx.MaxDepth = 4

	_, err := Parse(ctx, "((((a))))")
	require.NoError(t, err)

	ctx = NewContext(AtomCharacter, delimiter.Flags{})
	ctx.MaxDepth = 4
	_, err = Parse(ctx, "(((((a)))))")
	assert.True(t, errors.Is(err, ErrTooDeep))
}

func TestDefaultMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", DefaultMaxDepth+1) + "a" + strings.Repeat(")", DefaultMaxDepth+1)
	_, err := Parse(NewContext(AtomCharacter, delimiter.Flags{}), deep)
	assert.True(t, errors.Is(err, ErrTooDeep))
}

func TestFailedAttemptRollsBackGroups(t *testing.T) {
	ctx := NewContext(AtomCharacter, delimiter.Flags{})
	_, err := Parse(ctx, "((a)b")
	require.Error(t, err)
	assert.Empty(t, ctx.Groups)
}

func TestVerboseTrace(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(AtomCharacter, delimiter.Flags{})
	ctx.Logger = logger.New(true)
	ctx.Logger.SetOutput(&buf)

	_, err := Parse(ctx, `(a)\12`)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "group 1 closed")
	assert.Contains(t, out, `backreference \12 rejected`)
	assert.Contains(t, out, `backreference \1 bound`)
}

func TestDeterminism(t *testing.T) {
	for _, pattern := range []string{`((a)|b)+?\2[^-x\d]{2,}`, `(?=a)(?!b)(?:c)\x20A\cM`} {
		a, _ := parse(t, AtomCharacter, pattern)
		b, _ := parse(t, AtomCharacter, pattern)
		assert.True(t, ast.Equal(a, b), pattern)
	}
}

func TestParseAtomMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AtomMode
		wantErr bool
	}{
		{"", AtomCharacter, false},
		{"character", AtomCharacter, false},
		{"word", AtomWord, false},
		{"line", AtomCharacter, true},
	}
	for _, tt := range tests {
		got, err := ParseAtomMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAtomMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAtomMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	assert.Equal(t, "word", AtomWord.String())
}
