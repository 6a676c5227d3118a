package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a parsed condition.
type Expr interface {
	eval(env Lookup) (value, error)
	walk(fn func(name string))
}

type literal struct {
	v value
}

type ident struct {
	name string
}

type logical struct {
	op          Operator
	left, right Expr
}

// comparison holds a chain such as a < b <= c, meaning a<b and b<=c.
type comparison struct {
	operands []Expr
	ops      []Operator
}

type parser struct {
	cond string
	toks []token
	pos  int
}

// Parse compiles cond into an expression tree.
func Parse(cond string) (Expr, error) {
	toks, err := lex(cond)
	if err != nil {
		return nil, err
	}
	p := &parser{cond: cond, toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return expr, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, msg string, args ...any) error {
	return &SyntaxError{Cond: p.cond, Pos: t.pos, Msg: fmt.Sprintf(msg, args...)}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && p.peek().op == OpOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logical{op: OpOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && p.peek().op == OpAnd {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &logical{op: OpAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (Expr, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	cmp := &comparison{operands: []Expr{first}}
	for p.peek().kind == tokOp && p.peek().op.isComparison() {
		cmp.ops = append(cmp.ops, p.next().op)
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		cmp.operands = append(cmp.operands, operand)
	}
	if len(cmp.ops) == 0 {
		return first, nil
	}
	return cmp, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		return p.intLiteral(t, t.text)
	case tokMinus:
		n := p.next()
		if n.kind != tokInt {
			return nil, p.errorf(n, "expected integer after '-'")
		}
		return p.intLiteral(n, "-"+n.text)
	case tokBool:
		return &literal{v: boolValue(strings.EqualFold(t.text, "true"))}, nil
	case tokIdent:
		return &ident{name: t.text}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')'")
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of condition")
	default:
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
}

func (p *parser) intLiteral(t token, text string) (Expr, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf(t, "integer %s out of range", text)
	}
	return &literal{v: intValue(n)}, nil
}

func (l *literal) walk(func(string)) {}

func (i *ident) walk(fn func(string)) { fn(i.name) }

func (l *logical) walk(fn func(string)) {
	l.left.walk(fn)
	l.right.walk(fn)
}

func (c *comparison) walk(fn func(string)) {
	for _, o := range c.operands {
		o.walk(fn)
	}
}
