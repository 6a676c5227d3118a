package domain

// TransitionKey identifies a transition. At most one transition exists per key.
type TransitionKey struct {
	From string
	To   string
}

func (k TransitionKey) String() string {
	return k.From + "|" + k.To
}

// Transition defines the guarded edge between two states.
// Endpoints are referenced by name, not by live object.
type Transition struct {
	// Name is a display label. It is not required to be unique.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Condition is the guard in word-spelling, e.g. "speed gt 10 and door eq 0".
	// Merged transitions accumulate alternatives joined by " || ".
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`

	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Key returns the identity of the transition.
func (t Transition) Key() TransitionKey {
	return TransitionKey{From: t.From, To: t.To}
}
