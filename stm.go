package stm

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stm/internal/logging"
	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/condition"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/graph"
	"github.com/aretw0/stm/pkg/synth"
)

// Editor is the high-level entry point of the library.
// It owns one model and serializes every mutation behind a single writer lock.
type Editor struct {
	mu     sync.RWMutex
	model  *graph.Model
	hooks  []domain.ChangeHook
	logger *slog.Logger
	Name   string
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithChangeHook registers a hook called after every successful mutation.
func WithChangeHook(hook domain.ChangeHook) Option {
	return func(e *Editor) {
		e.hooks = append(e.hooks, hook)
	}
}

// WithName labels the model. The name is carried in snapshots and logs.
func WithName(name string) Option {
	return func(e *Editor) {
		e.Name = name
	}
}

// New creates an editor over an empty model.
func New(opts ...Option) *Editor {
	e := &Editor{model: graph.New()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.Name != "" {
		e.logger = e.logger.With("model", e.Name)
	}
	return e
}

// FromSnapshot creates an editor and bulk-loads snap into it. The editor is
// returned even when some entries fail to load; err lists the failures.
func FromSnapshot(snap *domain.Snapshot, opts ...Option) (*Editor, error) {
	if snap != nil && snap.Name != "" {
		opts = append([]Option{WithName(snap.Name)}, opts...)
	}
	e := New(opts...)
	err := e.model.Load(snap)
	return e, err
}

// write runs fn under the writer lock and fires the change hooks once the
// lock is released.
func (e *Editor) write(typ domain.EventType, subject string, fn func(m *graph.Model) error) error {
	e.mu.Lock()
	err := fn(e.model)
	e.mu.Unlock()

	if err != nil {
		e.rejected(string(typ), subject, err)
		return err
	}
	e.emit(typ, subject)
	return nil
}

func (e *Editor) rejected(op, subject string, err error) {
	e.logger.Debug("mutation rejected", "op", op, "subject", subject, "error", err)
}

func (e *Editor) emit(typ domain.EventType, subject string) {
	if len(e.hooks) == 0 {
		return
	}
	ev := domain.ChangeEvent{Timestamp: time.Now(), Type: typ, Subject: subject}
	for _, h := range e.hooks {
		h(ev)
	}
}

func (e *Editor) checkSpelling(src, dest, cond string) {
	if err := condition.CheckSpelling(cond); err != nil {
		e.logger.Warn("condition mixes operator spellings", "src", src, "dest", dest, "error", err)
	}
}

// AddState adds an empty state.
func (e *Editor) AddState(name string) error {
	return e.write(domain.EventStateAdded, name, func(m *graph.Model) error {
		return m.AddState(name)
	})
}

// AddTransition adds the (src, dest) transition or merges cond into it.
func (e *Editor) AddTransition(name, cond, src, dest string) (graph.Outcome, error) {
	e.checkSpelling(src, dest, cond)

	key := domain.TransitionKey{From: src, To: dest}.String()

	e.mu.Lock()
	out, err := e.model.AddTransition(name, cond, src, dest)
	e.mu.Unlock()
	if err != nil {
		e.rejected(string(domain.EventTransitionAdded), key, err)
		return out, err
	}

	if out == graph.Merged {
		e.emit(domain.EventTransitionMerged, key)
	} else {
		e.emit(domain.EventTransitionAdded, key)
	}
	return out, nil
}

// AddInput adds an input with an initial value.
func (e *Editor) AddInput(name, value string) error {
	return e.write(domain.EventInputChanged, name, func(m *graph.Model) error {
		return m.AddInput(name, value)
	})
}

// UpdateState re-asserts an existing state. The model does not change, so
// no event is emitted. Use RenameState to change a name.
func (e *Editor) UpdateState(name string) error {
	e.mu.Lock()
	err := e.model.UpdateState(name)
	e.mu.Unlock()
	if err != nil {
		e.rejected("state_updated", name, err)
	}
	return err
}

// RenameState renames a state and every transition touching it.
func (e *Editor) RenameState(oldName, newName string) error {
	return e.write(domain.EventStateRenamed, oldName+"->"+newName, func(m *graph.Model) error {
		return m.RenameState(oldName, newName)
	})
}

// UpdateTransition overwrites the name and condition of the (src, dest)
// transition without merging.
func (e *Editor) UpdateTransition(name, cond, src, dest string) error {
	e.checkSpelling(src, dest, cond)
	key := domain.TransitionKey{From: src, To: dest}.String()
	return e.write(domain.EventTransitionUpdated, key, func(m *graph.Model) error {
		return m.UpdateTransition(name, cond, src, dest)
	})
}

// UpdateInput sets the value of an input, adding it when absent.
func (e *Editor) UpdateInput(name, value string) error {
	return e.write(domain.EventInputChanged, name, func(m *graph.Model) error {
		return m.UpdateInput(name, value)
	})
}

// RemoveState deletes a state and cascades to its transitions.
func (e *Editor) RemoveState(name string) error {
	return e.write(domain.EventStateRemoved, name, func(m *graph.Model) error {
		return m.RemoveState(name)
	})
}

// RemoveTransition deletes the (src, dest) transition.
func (e *Editor) RemoveTransition(src, dest string) error {
	key := domain.TransitionKey{From: src, To: dest}.String()
	return e.write(domain.EventTransitionRemoved, key, func(m *graph.Model) error {
		return m.RemoveTransition(src, dest)
	})
}

// RemoveInput deletes an input. Conditions that reference it are kept.
func (e *Editor) RemoveInput(name string) error {
	return e.write(domain.EventInputRemoved, name, func(m *graph.Model) error {
		return m.RemoveInput(name)
	})
}

// Synthesize writes input values that make every atom of cond true.
func (e *Editor) Synthesize(cond string) ([]synth.Assignment, error) {
	var plan []synth.Assignment
	err := e.write(domain.EventInputsSynthesized, cond, func(m *graph.Model) error {
		var err error
		plan, err = synth.Apply(m, cond)
		return err
	})
	return plan, err
}

// SynthesizeTransition forces the guard of (src, dest) true.
func (e *Editor) SynthesizeTransition(src, dest string) ([]synth.Assignment, error) {
	key := domain.TransitionKey{From: src, To: dest}
	var plan []synth.Assignment
	err := e.write(domain.EventInputsSynthesized, key.String(), func(m *graph.Model) error {
		t, ok := m.Transition(src, dest)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, key)
		}
		var err error
		plan, err = synth.Apply(m, t.Condition)
		return err
	})
	return plan, err
}

// Load replaces the model with snap.
func (e *Editor) Load(snap *domain.Snapshot) error {
	e.mu.Lock()
	err := e.model.Load(snap)
	e.mu.Unlock()
	if err != nil {
		e.logger.Warn("model loaded with errors", "error", err)
	}
	e.emit(domain.EventModelLoaded, e.Name)
	return err
}

// Reset clears the model.
func (e *Editor) Reset() {
	e.mu.Lock()
	e.model.Reset()
	e.mu.Unlock()
	e.emit(domain.EventModelReset, e.Name)
}

// HasState reports whether the state exists.
func (e *Editor) HasState(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.HasState(name)
}

// HasTransition reports whether a (src, dest) transition exists.
func (e *Editor) HasTransition(src, dest string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.HasTransition(src, dest)
}

// HasInput reports whether the input exists.
func (e *Editor) HasInput(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.HasInput(name)
}

// States returns the state names in insertion order.
func (e *Editor) States() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.States()
}

// Transition returns the (src, dest) transition.
func (e *Editor) Transition(src, dest string) (domain.Transition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Transition(src, dest)
}

// Transitions returns every transition in insertion order.
func (e *Editor) Transitions() []domain.Transition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Transitions()
}

// Inputs returns the input table in insertion order.
func (e *Editor) Inputs() []domain.Input {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Inputs()
}

// InputValue returns the current value of an input.
func (e *Editor) InputValue(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.InputValue(name)
}

// Successors returns the destinations of name, in adjacency order.
func (e *Editor) Successors(name string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Successors(name)
}

// Predecessors returns the sources of transitions into name, in adjacency order.
func (e *Editor) Predecessors(name string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Predecessors(name)
}

// Snapshot returns the persisted form of the model.
func (e *Editor) Snapshot() *domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := e.model.Snapshot()
	snap.Name = e.Name
	return snap
}

// GeneratorSnapshot returns the model with conditions in symbolic spelling.
func (e *Editor) GeneratorSnapshot() *domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := e.model.GeneratorSnapshot()
	snap.Name = e.Name
	return snap
}

// Analyze runs every analyzer check. start may be empty.
func (e *Editor) Analyze(start string) analysis.Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return analysis.Analyze(e.model, start)
}

// Trace generates a coverage walk of steps transitions from start.
func (e *Editor) Trace(start string, steps int) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return analysis.Trace(e.model, start, steps)
}

// Next returns the state the machine moves to from state under the
// current inputs.
func (e *Editor) Next(state string) (string, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return analysis.Next(e.model, state)
}

// Run simulates up to maxSteps transitions from start.
func (e *Editor) Run(start string, maxSteps int) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return analysis.Run(e.model, start, maxSteps)
}

// Evaluate evaluates cond against the current inputs.
func (e *Editor) Evaluate(cond string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return condition.Evaluate(cond, e.model)
}

// CheckIndex verifies the adjacency indices against the transition table.
func (e *Editor) CheckIndex() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.CheckIndex()
}

// String dumps inputs, states and transitions as plain text.
func (e *Editor) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.String()
}
