package condition

import (
	"fmt"

	"github.com/aretw0/stm/pkg/domain"
)

// SyntaxError reports where a condition stopped making sense.
type SyntaxError struct {
	Cond string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed expression %q at offset %d: %s", e.Cond, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return domain.ErrMalformedExpression
}

// UnknownInputError is returned when a condition references an input the
// table does not hold.
type UnknownInputError struct {
	Name string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("malformed expression: unknown input %q", e.Name)
}

func (e *UnknownInputError) Unwrap() error {
	return domain.ErrMalformedExpression
}

// MixedSpellingError names the operator written both ways.
type MixedSpellingError struct {
	Cond string
	Op   Operator
}

func (e *MixedSpellingError) Error() string {
	return fmt.Sprintf("condition %q spells %q in both word and symbolic form", e.Cond, e.Op)
}

func (e *MixedSpellingError) Unwrap() error {
	return domain.ErrMixedSpelling
}
