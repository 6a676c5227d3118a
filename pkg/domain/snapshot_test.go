package domain

import (
	"testing"
)

func TestSnapshot_Clone(t *testing.T) {
	orig := &Snapshot{
		Name:        "door",
		States:      []string{"Closed", "Open"},
		Transitions: []Transition{{Name: "t1", Condition: "push eq 1", From: "Closed", To: "Open"}},
		Inputs:      []Input{{Name: "push", Value: "0"}},
		Sealed:      "c2VhbGVk",
	}

	clone := orig.Clone()
	clone.States[0] = "Shut"
	clone.Transitions[0].Condition = "push eq 2"
	clone.Inputs[0].Value = "1"

	if orig.States[0] != "Closed" {
		t.Errorf("states shared with clone: %v", orig.States)
	}
	if orig.Transitions[0].Condition != "push eq 1" {
		t.Errorf("transitions shared with clone: %v", orig.Transitions)
	}
	if orig.Inputs[0].Value != "0" {
		t.Errorf("inputs shared with clone: %v", orig.Inputs)
	}
	if clone.Name != "door" || clone.Sealed != "c2VhbGVk" {
		t.Errorf("scalar fields not copied: %+v", clone)
	}

	var nilSnap *Snapshot
	if nilSnap.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestSnapshot_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
		want bool
	}{
		{"nil", nil, true},
		{"zero", &Snapshot{}, true},
		{"only name", &Snapshot{Name: "x"}, true},
		{"state", &Snapshot{States: []string{"A"}}, false},
		{"input", &Snapshot{Inputs: []Input{{Name: "x", Value: "0"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
