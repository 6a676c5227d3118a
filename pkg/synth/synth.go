package synth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/stm/pkg/condition"
	"github.com/aretw0/stm/pkg/domain"
)

// Assignment is a value chosen for one input.
type Assignment struct {
	Input string `json:"input"`
	Value string `json:"value"`
}

// InputWriter receives the synthesized values.
type InputWriter interface {
	UpdateInput(name, value string) error
}

// rules are probed in this order; the first operator found in the atom wins.
// solve reports false when the satisfying value does not fit in an int64.
var rules = []struct {
	op    string
	solve func(lit int64) (int64, bool)
}{
	{"==", func(n int64) (int64, bool) { return n, true }},
	{"!=", func(n int64) (int64, bool) { return n + 1, n != math.MaxInt64 }},
	{"<=", func(n int64) (int64, bool) { return n, true }},
	{"<", func(n int64) (int64, bool) { return n - 1, n != math.MinInt64 }},
	{">=", func(n int64) (int64, bool) { return n, true }},
	{">", func(n int64) (int64, bool) { return n + 1, n != math.MaxInt64 }},
}

// Decompose flattens a symbolic condition into atoms: split on "&&", split
// each part on "||", drop empty parts and strip all whitespace.
func Decompose(cond string) []string {
	var atoms []string
	for _, clause := range strings.Split(cond, "&&") {
		for _, part := range strings.Split(clause, "||") {
			atom := strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return r
			}, part)
			if atom != "" {
				atoms = append(atoms, atom)
			}
		}
	}
	return atoms
}

// Solve picks a value for the input named on the left of atom that makes
// the comparison true.
func Solve(atom string) (Assignment, error) {
	for _, r := range rules {
		if !strings.Contains(atom, r.op) {
			continue
		}
		parts := strings.Split(atom, r.op)
		name := strings.Trim(parts[0], "()")
		lit := strings.Trim(parts[1], "()")
		if name == "" {
			return Assignment{}, fmt.Errorf("%w: %q has no input name", domain.ErrUnsupportedDecomposition, atom)
		}
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Assignment{}, fmt.Errorf("%w: %q is not compared to an integer", domain.ErrUnsupportedDecomposition, atom)
		}
		v, ok := r.solve(n)
		if !ok {
			return Assignment{}, fmt.Errorf("%w: %q has no satisfying int64 value", domain.ErrUnsupportedDecomposition, atom)
		}
		return Assignment{Input: name, Value: strconv.FormatInt(v, 10)}, nil
	}
	return Assignment{}, fmt.Errorf("%w: %q has no comparison operator", domain.ErrUnsupportedDecomposition, atom)
}

// Plan translates cond to symbolic spelling and solves every atom. It
// fails as a whole if any atom cannot be solved.
func Plan(cond string) ([]Assignment, error) {
	atoms := Decompose(condition.ToSymbolic(cond))
	plan := make([]Assignment, 0, len(atoms))
	for _, atom := range atoms {
		a, err := Solve(atom)
		if err != nil {
			return nil, err
		}
		plan = append(plan, a)
	}
	return plan, nil
}

// Apply plans cond and writes every assignment into w, in order. Nothing is
// written when planning fails.
func Apply(w InputWriter, cond string) ([]Assignment, error) {
	plan, err := Plan(cond)
	if err != nil {
		return nil, err
	}
	for _, a := range plan {
		if err := w.UpdateInput(a.Input, a.Value); err != nil {
			return nil, fmt.Errorf("write input %q: %w", a.Input, err)
		}
	}
	return plan, nil
}
