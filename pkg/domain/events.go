package domain

import "time"

// EventType defines the category of a model change.
type EventType string

const (
	EventStateAdded        EventType = "state_added"
	EventStateRenamed      EventType = "state_renamed"
	EventStateRemoved      EventType = "state_removed"
	EventTransitionAdded   EventType = "transition_added"
	EventTransitionMerged  EventType = "transition_merged"
	EventTransitionUpdated EventType = "transition_updated"
	EventTransitionRemoved EventType = "transition_removed"
	EventInputChanged      EventType = "input_changed"
	EventInputRemoved      EventType = "input_removed"
	EventInputsSynthesized EventType = "inputs_synthesized"
	EventModelLoaded       EventType = "model_loaded"
	EventModelReset        EventType = "model_reset"
)

// ChangeEvent describes a successful mutation of a model.
type ChangeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Model is the store ID of the model, set by services that manage many.
	Model string `json:"model,omitempty"`
	// Subject names the entity touched: a state, an input or "src|dest".
	Subject string `json:"subject,omitempty"`
}

// ChangeHook observes model mutations. Hooks run after the mutation is
// committed and must not call back into the editor that emitted them.
type ChangeHook func(ChangeEvent)
