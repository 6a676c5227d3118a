package dsl

import (
	"fmt"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/graph"
)

// Builder manages the model construction.
type Builder struct {
	name   string
	order  []string
	states map[string]*StateBuilder
	inputs []domain.Input
}

// New creates a new model builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[string]*StateBuilder),
	}
}

// State declares a state. If the state already exists, it returns the
// existing builder.
func (b *Builder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Input declares an input with an initial value. Inputs referenced by a
// guard are declared implicitly at 0.
func (b *Builder) Input(name, value string) *Builder {
	b.inputs = append(b.inputs, domain.Input{Name: name, Value: value})
	return b
}

// Build compiles the declarations into a normalized snapshot: transitions
// are named and the inputs their guards reference are declared.
func (b *Builder) Build() (*domain.Snapshot, error) {
	raw := &domain.Snapshot{
		States: append([]string(nil), b.order...),
		Inputs: append([]domain.Input(nil), b.inputs...),
	}
	for _, name := range b.order {
		raw.Transitions = append(raw.Transitions, b.states[name].transitions...)
	}

	m := graph.New()
	if err := m.Load(raw); err != nil {
		return nil, fmt.Errorf("failed to build model %q: %w", b.name, err)
	}
	snap := m.Snapshot()
	snap.Name = b.name
	return snap, nil
}

// Editor builds the model into a new editor.
func (b *Builder) Editor(opts ...stm.Option) (*stm.Editor, error) {
	snap, err := b.Build()
	if err != nil {
		return nil, err
	}
	return stm.FromSnapshot(snap, opts...)
}
