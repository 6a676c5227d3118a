package condition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Lookup resolves input names to their current values.
type Lookup interface {
	InputValue(name string) (string, bool)
}

// MapLookup adapts a plain map to Lookup.
type MapLookup map[string]string

// InputValue implements Lookup.
func (m MapLookup) InputValue(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// value is an integer or a boolean. Booleans compare as 0 and 1.
type value struct {
	n      int64
	isBool bool
}

func intValue(n int64) value { return value{n: n} }

func boolValue(b bool) value {
	if b {
		return value{n: 1, isBool: true}
	}
	return value{n: 0, isBool: true}
}

func (v value) truthy() bool { return v.n != 0 }

// ParseValue interprets an input value: a decimal integer or a boolean
// literal in any letter case.
func ParseValue(raw string) (int64, bool, error) {
	s := strings.TrimSpace(raw)
	if isBoolLiteral(s) {
		if strings.EqualFold(s, "true") {
			return 1, true, nil
		}
		return 0, true, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("input value %q is neither an integer nor a boolean", raw)
	}
	return n, false, nil
}

// Evaluate parses cond and evaluates it against inputs. Every identifier
// must be present in inputs; identifiers are substituted as whole tokens.
func Evaluate(cond string, inputs Lookup) (bool, error) {
	expr, err := Parse(cond)
	if err != nil {
		return false, err
	}
	return Eval(expr, inputs)
}

// Eval evaluates a parsed expression.
func Eval(expr Expr, inputs Lookup) (bool, error) {
	var missing string
	expr.walk(func(name string) {
		if missing != "" {
			return
		}
		if _, ok := inputs.InputValue(name); !ok {
			missing = name
		}
	})
	if missing != "" {
		return false, &UnknownInputError{Name: missing}
	}
	v, err := expr.eval(inputs)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

func (l *literal) eval(Lookup) (value, error) {
	return l.v, nil
}

func (i *ident) eval(env Lookup) (value, error) {
	raw, ok := env.InputValue(i.name)
	if !ok {
		return value{}, &UnknownInputError{Name: i.name}
	}
	n, isBool, err := ParseValue(raw)
	if err != nil {
		return value{}, fmt.Errorf("input %q: %w", i.name, &SyntaxError{Cond: raw, Msg: err.Error()})
	}
	return value{n: n, isBool: isBool}, nil
}

func (l *logical) eval(env Lookup) (value, error) {
	left, err := l.left.eval(env)
	if err != nil {
		return value{}, err
	}
	switch {
	case l.op == OpAnd && !left.truthy():
		return boolValue(false), nil
	case l.op == OpOr && left.truthy():
		return boolValue(true), nil
	}
	right, err := l.right.eval(env)
	if err != nil {
		return value{}, err
	}
	return boolValue(right.truthy()), nil
}

func (c *comparison) eval(env Lookup) (value, error) {
	left, err := c.operands[0].eval(env)
	if err != nil {
		return value{}, err
	}
	for i, op := range c.ops {
		right, err := c.operands[i+1].eval(env)
		if err != nil {
			return value{}, err
		}
		if !compare(op, left.n, right.n) {
			return boolValue(false), nil
		}
		left = right
	}
	return boolValue(true), nil
}

func compare(op Operator, a, b int64) bool {
	switch op {
	case OpLT:
		return a < b
	case OpGT:
		return a > b
	case OpLE:
		return a <= b
	case OpGE:
		return a >= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	}
	return false
}

// Identifiers returns the distinct input names referenced by expr, in
// order of first appearance.
func Identifiers(expr Expr) []string {
	var names []string
	seen := make(map[string]bool)
	expr.walk(func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	return names
}

var tokenPattern = regexp.MustCompile(`[\w']+`)

// ReferencedInputs scans the symbolic spelling of cond for input names:
// every distinct word token that is neither a plain integer, a boolean
// literal nor an operator word. It does not require cond to be well formed.
func ReferencedInputs(cond string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(ToSymbolic(cond), -1) {
		if _, reserved := keywords[tok]; reserved {
			continue
		}
		if isInteger(tok) || isBoolLiteral(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		names = append(names, tok)
	}
	return names
}
