package domain

// Snapshot is the full, insertion-ordered content of a model.
// Persistence adapters serialize it; code generators read it with
// conditions already translated to symbolic spelling.
type Snapshot struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	States      []string     `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
	Inputs      []Input      `json:"inputs" yaml:"inputs"`
	// Sealed holds an encrypted snapshot. When set, the other fields are
	// empty; see the persistence middleware.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// Clone returns a deep copy safe for independent mutation.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Name:        s.Name,
		States:      append([]string(nil), s.States...),
		Transitions: append([]Transition(nil), s.Transitions...),
		Inputs:      append([]Input(nil), s.Inputs...),
		Sealed:      s.Sealed,
	}
	return out
}

// IsEmpty reports whether the snapshot holds no entities.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.States) == 0 && len(s.Transitions) == 0 && len(s.Inputs) == 0)
}
