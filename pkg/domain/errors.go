package domain

import "errors"

// Lookup misses.
var (
	ErrStateNotFound      = errors.New("state not found")
	ErrTransitionNotFound = errors.New("transition not found")
	ErrInputNotFound      = errors.New("input not found")
)

// Duplicate adds.
var (
	ErrStateExists = errors.New("a state with the same name already exists")
	ErrInputExists = errors.New("an input with the same name already exists")
)

// ErrInvalidEndpoint is returned when a transition references a missing state.
var ErrInvalidEndpoint = errors.New("source or destination state does not exist")

// ErrMalformedExpression is returned when a condition fails to parse or evaluate.
var ErrMalformedExpression = errors.New("malformed expression")

// ErrUnsupportedDecomposition is returned when the synthesizer meets a
// comparison it cannot invert.
var ErrUnsupportedDecomposition = errors.New("unsupported decomposition")

// ErrMixedSpelling flags a condition that spells the same operator both ways.
var ErrMixedSpelling = errors.New("operator spelled in both word and symbolic form")

// ErrInconsistentIndex signals a broken adjacency invariant. It is a
// programming defect, never a user error.
var ErrInconsistentIndex = errors.New("inconsistent adjacency index")

// ErrDeadEnd is returned by the trace generator when the walk reaches a
// state without outgoing transitions.
var ErrDeadEnd = errors.New("state has no outgoing transitions")

// ErrInvalidSteps is returned for a negative step count.
var ErrInvalidSteps = errors.New("step count must not be negative")

// ErrModelNotFound is returned when a model ID cannot be found in the store.
var ErrModelNotFound = errors.New("model not found")
