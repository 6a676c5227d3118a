package dsl

import "github.com/aretw0/stm/pkg/domain"

// StateBuilder provides a fluent API for the transitions leaving a state.
type StateBuilder struct {
	name        string
	builder     *Builder
	transitions []domain.Transition
}

// Go adds an unconditional transition to the target state.
func (s *StateBuilder) Go(target string) *StateBuilder {
	return s.Branch("", target)
}

// Branch adds a guarded transition to the target state. A second branch to
// the same target is merged into the first with ||.
func (s *StateBuilder) Branch(condition string, target string) *StateBuilder {
	s.transitions = append(s.transitions, domain.Transition{
		Condition: condition,
		From:      s.name,
		To:        target,
	})
	return s
}

// Named names the transition added last.
func (s *StateBuilder) Named(name string) *StateBuilder {
	if n := len(s.transitions); n > 0 {
		s.transitions[n-1].Name = name
	}
	return s
}

// Terminal drops every transition leaving the state.
func (s *StateBuilder) Terminal() *StateBuilder {
	s.transitions = nil
	return s
}

// State continues with another state of the same model.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}
