package grammar

import (
	"strconv"

	"github.com/KromDaniel/regast/ast"
	c "github.com/KromDaniel/regast/internal/combinator"
)

const (
	digits     = "0123456789"
	hexDigits  = "0123456789abcdefABCDEF"
	wordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	classNames = `WwSsDdfnrtv0`
	metaChars  = `\^$.|?*+()[]{}-`

	// Characters that never form a plain atom on their own.
	reserved = `()[|*+?\`
)

type node = c.Result[*ast.Node]

// grammar holds the rules for one parse. Every rule reads and updates the
// parse state only through g.ctx.
type grammar struct {
	ctx *Context

	atom        c.Parser[*ast.Node]
	classMember c.Parser[*ast.Node]
	quantifier  c.Parser[quantifier]
}

type quantifier struct {
	kind   ast.Kind
	min    int
	max    int
	lazy   bool
	exists bool
}

func newGrammar(ctx *Context) *grammar {
	g := &grammar{ctx: ctx}

	leaf := func(kind ast.Kind, p c.Parser[string]) c.Parser[*ast.Node] {
		return c.Map(p, func(s string) *ast.Node { return ast.New(kind, s) })
	}
	escape := func(rest c.Parser[string]) c.Parser[string] {
		return c.Text(c.Seq(c.Literal(`\`), rest))
	}
	hex := c.CharIn(hexDigits)

	plain := leaf(ast.KindLiteral, c.Not(1, c.CharIn(reserved)))
	if ctx.AtomMode == AtomWord {
		plain = c.Alt(g.word, plain)
	}

	g.atom = c.Alt(
		g.group("(?=", ast.KindLookahead),
		g.group("(?!", ast.KindNegLookahead),
		g.group("(?:", ast.KindNonCapture),
		g.group("(", ast.KindGroup),
		g.class("[^", ast.KindNegClass),
		g.class("[", ast.KindClass),
		leaf(ast.KindAssertion, c.Alt(c.CharIn("^$"), c.Literal(`\b`), c.Literal(`\B`))),
		leaf(ast.KindEscape, escape(c.CharIn(classNames))),
		leaf(ast.KindEscape, escape(c.CharIn(metaChars))),
		leaf(ast.KindEscape, c.Literal(`\/`)),
		leaf(ast.KindControl, c.Text(c.Seq(c.Literal(`\c`), c.CharIn(letters)))),
		leaf(ast.KindHex, c.Text(c.Seq(c.Literal(`\x`), hex, hex))),
		leaf(ast.KindUnicode, c.Text(c.Seq(c.Literal(`\u`), hex, hex, hex, hex))),
		g.backreference,
		g.escapedDigit,
		leaf(ast.KindDot, c.Literal(".")),
		plain,
	)

	classChar := c.Not(1, c.CharIn(`]\`))
	g.classMember = c.Alt(
		c.Map(c.Seq(classChar, c.Literal("-"), classChar), func(s []string) *ast.Node {
			return ast.New(ast.KindRange, "", ast.Literal(s[0]), ast.Literal(s[2]))
		}),
		leaf(ast.KindEscape, escape(c.Consume(1))),
		leaf(ast.KindLiteral, c.Not(1, c.Literal("]"))),
	)

	lazy := c.Map(c.Optional(c.Literal("?"), ""), func(s string) bool { return s != "" })
	unbounded := func(op string, kind ast.Kind) c.Parser[quantifier] {
		return func(cur c.Cursor) c.Result[quantifier] {
			r := c.Literal(op)(cur)
			if !r.OK {
				return c.Failure[quantifier](cur)
			}
			if kind == ast.KindQuest {
				return c.Success(quantifier{kind: kind, exists: true}, r.Next)
			}
			l := lazy(r.Next)
			return c.Success(quantifier{kind: kind, lazy: l.Value, exists: true}, l.Next)
		}
	}
	g.quantifier = c.Optional(c.Alt(
		unbounded("*", ast.KindStar),
		unbounded("+", ast.KindPlus),
		unbounded("?", ast.KindQuest),
		g.bounded(lazy),
	), quantifier{})

	return g
}

// toplevel is a concatenation, optionally followed by '|' and another
// toplevel, so alternatives associate to the right.
func (g *grammar) toplevel(cur c.Cursor) node {
	left := g.concatenation(cur)
	if !left.OK {
		return left
	}
	bar := c.Literal("|")(left.Next)
	if !bar.OK {
		return left
	}
	mark := len(g.ctx.Groups)
	right := g.toplevel(bar.Next)
	if !right.OK {
		g.ctx.rollback(mark)
		return left
	}
	return c.Success(ast.New(ast.KindAlternate, "", left.Value, right.Value), right.Next)
}

// concatenation folds one or more terms right-associatively.
func (g *grammar) concatenation(cur c.Cursor) node {
	r := c.Many1(g.term)(cur)
	if !r.OK {
		return c.Failure[*ast.Node](cur)
	}
	return c.Success(foldRight(r.Value), r.Next)
}

func (g *grammar) term(cur c.Cursor) node {
	a := g.atom(cur)
	if !a.OK {
		return a
	}
	g.ctx.reach(a.Next.Pos())
	q := g.quantifier(a.Next)
	if !q.Value.exists {
		return a
	}
	g.ctx.reach(q.Next.Pos())
	v := q.Value
	return c.Success(ast.Repetition(v.kind, v.lazy, v.min, v.max, a.Value), q.Next)
}

// bounded parses {m}, {m,} and {m,n} with an optional non-greedy '?'.
func (g *grammar) bounded(lazy c.Parser[bool]) c.Parser[quantifier] {
	number := c.Text(c.Many1(c.CharIn(digits)))
	upper := c.Optional(c.Map(c.Seq(c.Literal(","), c.Optional(number, "")), func(s []string) string {
		if s[1] == "" {
			return ","
		}
		return s[1]
	}), "")
	return func(cur c.Cursor) c.Result[quantifier] {
		r := c.Seq(c.Literal("{"), number, upper, c.Literal("}"))(cur)
		if !r.OK {
			return c.Failure[quantifier](cur)
		}
		lo, err := strconv.Atoi(r.Value[1])
		if err != nil {
			return c.Failure[quantifier](cur)
		}
		hi := lo
		switch r.Value[2] {
		case "":
		case ",":
			hi = ast.Unbounded
		default:
			if hi, err = strconv.Atoi(r.Value[2]); err != nil {
				return c.Failure[quantifier](cur)
			}
		}
		l := lazy(r.Next)
		return c.Success(quantifier{kind: ast.KindRepeat, min: lo, max: hi, lazy: l.Value, exists: true}, l.Next)
	}
}

// group parses open, a nested toplevel and ')'. Capturing groups register
// themselves once the closing parenthesis has been matched.
func (g *grammar) group(open string, kind ast.Kind) c.Parser[*ast.Node] {
	openP, closeP := c.Literal(open), c.Literal(")")
	return func(cur c.Cursor) node {
		o := openP(cur)
		if !o.OK {
			return c.Failure[*ast.Node](cur)
		}
		g.ctx.reach(o.Next.Pos())
		mark := len(g.ctx.Groups)
		body := g.nested(o.Next)
		if !body.OK {
			g.ctx.rollback(mark)
			return c.Failure[*ast.Node](cur)
		}
		cl := closeP(body.Next)
		if !cl.OK {
			g.ctx.rollback(mark)
			return c.Failure[*ast.Node](cur)
		}
		n := ast.New(kind, "", body.Value)
		if kind == ast.KindGroup {
			g.ctx.register(n, cl.Next.Pos())
		}
		return c.Success(n, cl.Next)
	}
}

// nested parses a group body and enforces the nesting bound.
func (g *grammar) nested(cur c.Cursor) node {
	if g.ctx.err != nil {
		return c.Failure[*ast.Node](cur)
	}
	if g.ctx.depth >= g.ctx.maxDepth() {
		g.ctx.err = ErrTooDeep
		return c.Failure[*ast.Node](cur)
	}
	g.ctx.depth++
	defer func() { g.ctx.depth-- }()
	return g.toplevel(cur)
}

func (g *grammar) class(open string, kind ast.Kind) c.Parser[*ast.Node] {
	p := c.Seq(
		c.Map(c.Literal(open), func(string) []*ast.Node { return nil }),
		c.Many1(func(cur c.Cursor) node {
			r := g.classMember(cur)
			if r.OK {
				g.ctx.reach(r.Next.Pos())
			}
			return r
		}),
		c.Map(c.Literal("]"), func(string) []*ast.Node { return nil }),
	)
	return c.Map(p, func(parts [][]*ast.Node) *ast.Node {
		return ast.New(kind, "", foldRight(parts[1]))
	})
}

// backreference prefers a two-digit ordinal when that many groups have
// already closed, otherwise falls back to a single digit and leaves the
// second digit for the next atom.
func (g *grammar) backreference(cur c.Cursor) node {
	one := c.Seq(c.Literal(`\`), c.CharIn(digits[1:]))
	two := c.Seq(c.Literal(`\`), c.CharIn(digits[1:]), c.CharIn(digits))

	if r := two(cur); r.OK {
		n, _ := strconv.Atoi(r.Value[1] + r.Value[2])
		if grp, ok := g.ctx.group(n); ok {
			g.ctx.Logger.Log("backreference \\%d bound at offset %d", n, cur.Pos())
			return c.Success(ast.Backref(n, grp), r.Next)
		}
		g.ctx.Logger.Log("backreference \\%d rejected at offset %d: %d group(s) closed", n, cur.Pos(), len(g.ctx.Groups))
	}
	if r := one(cur); r.OK {
		n, _ := strconv.Atoi(r.Value[1])
		if grp, ok := g.ctx.group(n); ok {
			g.ctx.Logger.Log("backreference \\%d bound at offset %d", n, cur.Pos())
			return c.Success(ast.Backref(n, grp), r.Next)
		}
	}
	return c.Failure[*ast.Node](cur)
}

// escapedDigit is the fallback for a \<digit> that names no completed group:
// the backslash is dropped and the digit becomes a literal atom.
func (g *grammar) escapedDigit(cur c.Cursor) node {
	r := c.Seq(c.Literal(`\`), c.CharIn(digits[1:]))(cur)
	if !r.OK {
		return c.Failure[*ast.Node](cur)
	}
	n := ast.Literal(r.Value[1])
	n.Escaped = true
	return c.Success(n, r.Next)
}

// word matches a run of word characters, dropping bare spaces on either side.
func (g *grammar) word(cur c.Cursor) node {
	spaces := c.Optional(c.Text(c.Many1(c.CharIn(" "))), "")
	r := c.Seq(spaces, c.Text(c.Many1(c.CharIn(wordChars))), spaces)(cur)
	if !r.OK {
		return c.Failure[*ast.Node](cur)
	}
	return c.Success(ast.Literal(r.Value[1]), r.Next)
}

func foldRight(nodes []*ast.Node) *ast.Node {
	acc := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		acc = ast.New(ast.KindConcat, "", nodes[i], acc)
	}
	return acc
}

// Parse parses pattern with ctx and requires the whole pattern to be consumed.
func Parse(ctx *Context, pattern string) (*ast.Node, error) {
	g := newGrammar(ctx)
	ctx.Logger.Section("Parse")
	ctx.Logger.Log("Pattern: %s (atom mode %s)", pattern, ctx.AtomMode)

	r := g.toplevel(c.NewCursor(pattern))
	if ctx.err != nil {
		return nil, &SyntaxError{Pattern: pattern, Offset: max(r.Next.Pos(), ctx.furthest), Err: ctx.err}
	}
	if !r.OK || !r.Next.AtEnd() {
		return nil, &SyntaxError{Pattern: pattern, Offset: max(r.Next.Pos(), ctx.furthest), Err: ErrNoDerivation}
	}
	ctx.Logger.Log("Parsed %d capturing group(s)", len(ctx.Groups))
	return r.Value, nil
}
