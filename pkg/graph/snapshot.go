package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stm/pkg/condition"
	"github.com/aretw0/stm/pkg/domain"
)

// Snapshot returns the full content of the model with conditions in
// word-spelling, as persisted.
func (m *Model) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		States:      m.States(),
		Transitions: m.Transitions(),
		Inputs:      m.Inputs(),
	}
}

// GeneratorSnapshot returns the snapshot consumed by code generators:
// conditions are pre-translated to symbolic spelling.
func (m *Model) GeneratorSnapshot() *domain.Snapshot {
	snap := m.Snapshot()
	for i := range snap.Transitions {
		snap.Transitions[i].Condition = condition.ToSymbolic(snap.Transitions[i].Condition)
	}
	return snap
}

// Load resets the model and bulk-adds the snapshot content. It behaves like
// the equivalent sequence of Add calls: failures are collected and returned
// joined, successful entries are kept.
func (m *Model) Load(snap *domain.Snapshot) error {
	m.Reset()
	if snap == nil {
		return nil
	}

	var errs []error
	errs = append(errs, m.AddStates(snap.States))
	// A later duplicate input overwrites the earlier one.
	for _, in := range snap.Inputs {
		m.inputs.set(in.Name, in.Value)
	}
	errs = append(errs, m.AddTransitions(snap.Transitions))
	return errors.Join(errs...)
}

// AddStates adds every state in order.
func (m *Model) AddStates(names []string) error {
	var errs []error
	for _, name := range names {
		if err := m.AddState(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddTransitions adds every transition in order, merging duplicates.
func (m *Model) AddTransitions(ts []domain.Transition) error {
	var errs []error
	for _, t := range ts {
		if _, err := m.AddTransition(t.Name, t.Condition, t.From, t.To); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// String dumps the model: inputs, states, then transitions.
func (m *Model) String() string {
	var b strings.Builder
	b.WriteString("\nstm")
	b.WriteString("\n\tInputs:")
	for _, in := range m.Inputs() {
		fmt.Fprintf(&b, "\n\t\t%s = %s", in.Name, in.Value)
	}
	b.WriteString("\n\tStates:")
	for _, s := range m.states.keys {
		fmt.Fprintf(&b, "\n\t\t%s", s)
	}
	b.WriteString("\n\tTransitions:")
	for _, t := range m.Transitions() {
		fmt.Fprintf(&b, "\n\t\t%s: %s -> %s [%s]", t.Name, t.From, t.To, t.Condition)
	}
	return b.String()
}
