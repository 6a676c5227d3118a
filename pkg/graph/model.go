package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stm/pkg/condition"
	"github.com/aretw0/stm/pkg/domain"
)

// Outcome tells how AddTransition treated its request.
type Outcome int

const (
	// Created means a new transition entity was inserted.
	Created Outcome = iota
	// Merged means an existing transition absorbed the condition.
	Merged
)

func (o Outcome) String() string {
	if o == Merged {
		return "merged"
	}
	return "created"
}

// mergeSeparator joins alternatives merged into one transition.
const mergeSeparator = " || "

// Model is the in-memory graph of states, transitions and inputs.
type Model struct {
	states      *table[string, domain.State]
	transitions *table[domain.TransitionKey, domain.Transition]
	inputs      *table[string, string]

	forward map[string][]string
	reverse map[string][]string

	// nameSeq feeds auto-generated transition names.
	nameSeq int
}

// New creates an empty model.
func New() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset clears every table and index.
func (m *Model) Reset() {
	m.states = newTable[string, domain.State]()
	m.transitions = newTable[domain.TransitionKey, domain.Transition]()
	m.inputs = newTable[string, string]()
	m.forward = make(map[string][]string)
	m.reverse = make(map[string][]string)
	m.nameSeq = 0
}

// AddState inserts an empty state.
func (m *Model) AddState(name string) error {
	if m.states.has(name) {
		return fmt.Errorf("%w: %q", domain.ErrStateExists, name)
	}
	m.states.set(name, domain.State{Name: name})
	return nil
}

// AddTransition creates the (src, dest) transition, or merges cond into the
// existing one: a condition already contained in the stored text changes
// nothing, anything else is appended as an alternative. Both paths register
// the inputs the condition references.
func (m *Model) AddTransition(name, cond, src, dest string) (Outcome, error) {
	key := domain.TransitionKey{From: src, To: dest}
	if t, ok := m.transitions.get(key); ok {
		if !strings.Contains(t.Condition, cond) {
			t.Condition += mergeSeparator + cond
			m.transitions.set(key, t)
		}
		m.registerInputs(cond)
		return Merged, nil
	}

	if !m.states.has(src) || !m.states.has(dest) {
		return Created, fmt.Errorf("%w: %q -> %q", domain.ErrInvalidEndpoint, src, dest)
	}

	m.forward[src] = append(m.forward[src], dest)
	m.reverse[dest] = append(m.reverse[dest], src)
	if name == "" {
		name = m.nextName()
	}
	m.transitions.set(key, domain.Transition{Name: name, Condition: cond, From: src, To: dest})
	m.registerInputs(cond)
	return Created, nil
}

// AddInput inserts an input with the given value.
func (m *Model) AddInput(name, value string) error {
	if m.inputs.has(name) {
		return fmt.Errorf("%w: %q", domain.ErrInputExists, name)
	}
	m.inputs.set(name, value)
	return nil
}

// UpdateState re-asserts an existing state. Use RenameState to change a name.
func (m *Model) UpdateState(name string) error {
	if !m.states.has(name) {
		return fmt.Errorf("%w: %q", domain.ErrStateNotFound, name)
	}
	m.states.set(name, domain.State{Name: name})
	return nil
}

// RenameState re-keys a state together with every transition touching it
// and both adjacency indices. Positions in every ordered list are kept.
func (m *Model) RenameState(oldName, newName string) error {
	if !m.states.has(oldName) {
		return fmt.Errorf("%w: %q", domain.ErrStateNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if m.states.has(newName) {
		return fmt.Errorf("%w: %q", domain.ErrStateExists, newName)
	}

	m.states.rekey(oldName, newName, domain.State{Name: newName})

	for _, key := range m.transitions.ordered() {
		if key.From != oldName && key.To != oldName {
			continue
		}
		t, _ := m.transitions.get(key)
		if t.From == oldName {
			t.From = newName
		}
		if t.To == oldName {
			t.To = newName
		}
		m.transitions.rekey(key, t.Key(), t)
	}

	renameIndex(m.forward, oldName, newName)
	renameIndex(m.reverse, oldName, newName)
	return nil
}

func renameIndex(index map[string][]string, oldName, newName string) {
	if list, ok := index[oldName]; ok {
		delete(index, oldName)
		index[newName] = list
	}
	for _, list := range index {
		for i, v := range list {
			if v == oldName {
				list[i] = newName
			}
		}
	}
}

// UpdateTransition overwrites the name and condition of (src, dest).
// Unlike AddTransition it never merges.
func (m *Model) UpdateTransition(name, cond, src, dest string) error {
	key := domain.TransitionKey{From: src, To: dest}
	t, ok := m.transitions.get(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, key)
	}
	t.Name = name
	t.Condition = cond
	m.transitions.set(key, t)
	m.registerInputs(cond)
	return nil
}

// UpdateInput overwrites the value of an input, adding it when absent.
func (m *Model) UpdateInput(name, value string) error {
	m.inputs.set(name, value)
	return nil
}

// RemoveState deletes a state and every transition that has it as source
// or destination.
func (m *Model) RemoveState(name string) error {
	if !m.states.has(name) {
		return fmt.Errorf("%w: %q", domain.ErrStateNotFound, name)
	}
	m.unlinkState(name)
	m.states.delete(name)
	return nil
}

// unlinkState cascades the removal of every incident transition. Index
// entries are cleaned here, so transitions are dropped without touching
// the indices a second time.
func (m *Model) unlinkState(name string) {
	for len(m.forward[name]) > 0 {
		dests := m.forward[name]
		dest := dests[len(dests)-1]
		m.forward[name] = dests[:len(dests)-1]
		m.reverse[dest] = removeFirst(m.reverse[dest], name)
		prune(m.reverse, dest)
		m.dropTransition(name, dest)
	}
	delete(m.forward, name)

	for len(m.reverse[name]) > 0 {
		srcs := m.reverse[name]
		src := srcs[len(srcs)-1]
		m.reverse[name] = srcs[:len(srcs)-1]
		m.forward[src] = removeFirst(m.forward[src], name)
		prune(m.forward, src)
		m.dropTransition(src, name)
	}
	delete(m.reverse, name)
}

// RemoveTransition deletes (src, dest) and its index entries.
func (m *Model) RemoveTransition(src, dest string) error {
	key := domain.TransitionKey{From: src, To: dest}
	if !m.transitions.has(key) {
		return fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, key)
	}
	m.forward[src] = removeFirst(m.forward[src], dest)
	prune(m.forward, src)
	m.reverse[dest] = removeFirst(m.reverse[dest], src)
	prune(m.reverse, dest)
	m.dropTransition(src, dest)
	return nil
}

func (m *Model) dropTransition(src, dest string) {
	m.transitions.delete(domain.TransitionKey{From: src, To: dest})
}

// RemoveInput deletes an input. Conditions that reference it are left as is.
func (m *Model) RemoveInput(name string) error {
	if !m.inputs.has(name) {
		return fmt.Errorf("%w: %q", domain.ErrInputNotFound, name)
	}
	m.inputs.delete(name)
	return nil
}

// HasState reports whether the state exists.
func (m *Model) HasState(name string) bool { return m.states.has(name) }

// HasTransition reports whether (src, dest) exists.
func (m *Model) HasTransition(src, dest string) bool {
	return m.transitions.has(domain.TransitionKey{From: src, To: dest})
}

// HasInput reports whether the input exists.
func (m *Model) HasInput(name string) bool { return m.inputs.has(name) }

// States returns state names in insertion order.
func (m *Model) States() []string { return m.states.ordered() }

// Transition returns the (src, dest) transition.
func (m *Model) Transition(src, dest string) (domain.Transition, bool) {
	return m.transitions.get(domain.TransitionKey{From: src, To: dest})
}

// Transitions returns every transition in insertion order.
func (m *Model) Transitions() []domain.Transition {
	out := make([]domain.Transition, 0, m.transitions.len())
	for _, key := range m.transitions.keys {
		out = append(out, m.transitions.vals[key])
	}
	return out
}

// Inputs returns every input in insertion order.
func (m *Model) Inputs() []domain.Input {
	out := make([]domain.Input, 0, m.inputs.len())
	for _, name := range m.inputs.keys {
		out = append(out, domain.Input{Name: name, Value: m.inputs.vals[name]})
	}
	return out
}

// InputValue implements condition.Lookup.
func (m *Model) InputValue(name string) (string, bool) {
	return m.inputs.get(name)
}

// Successors returns the forward adjacency list of a state, or nil when
// it has no outgoing transitions.
func (m *Model) Successors(name string) []string {
	return slices.Clone(m.forward[name])
}

// Predecessors returns the reverse adjacency list of a state.
func (m *Model) Predecessors(name string) []string {
	return slices.Clone(m.reverse[name])
}

// HasSuccessors reports whether the state has a forward index entry.
func (m *Model) HasSuccessors(name string) bool {
	_, ok := m.forward[name]
	return ok
}

// registerInputs adds every input referenced by cond that is not known yet.
func (m *Model) registerInputs(cond string) {
	for _, name := range condition.ReferencedInputs(cond) {
		if !m.inputs.has(name) {
			m.inputs.set(name, domain.DefaultInputValue)
		}
	}
}

// nextName returns "t<N>" for the next N not already used as a name.
func (m *Model) nextName() string {
	used := make(map[string]bool, m.transitions.len())
	for _, t := range m.transitions.vals {
		used[t.Name] = true
	}
	for {
		m.nameSeq++
		name := "t" + strconv.Itoa(m.nameSeq)
		if !used[name] {
			return name
		}
	}
}

func removeFirst(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

func prune(index map[string][]string, key string) {
	if list, ok := index[key]; ok && len(list) == 0 {
		delete(index, key)
	}
}

// Condition returns the guard of (src, dest) in word-spelling.
func (m *Model) Condition(src, dest string) (string, bool) {
	t, ok := m.Transition(src, dest)
	return t.Condition, ok
}

// TransitionCount returns the number of transitions.
func (m *Model) TransitionCount() int { return m.transitions.len() }

// InputCount returns the number of inputs.
func (m *Model) InputCount() int { return m.inputs.len() }
