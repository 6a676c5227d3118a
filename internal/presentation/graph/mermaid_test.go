package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/stm/internal/presentation/graph"
	"github.com/aretw0/stm/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snap     *domain.Snapshot
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Start and Terminal Shapes",
			snap: &domain.Snapshot{
				States:      []string{"Idle", "Run", "Done"},
				Transitions: []domain.Transition{{From: "Idle", To: "Run"}, {From: "Run", To: "Done"}},
			},
			overlay: &graph.GraphOverlay{Start: "Idle"},
			contains: []string{
				"Idle((\"Idle\"))",
				"Run[\"Run\"]",
				"Done(((\"Done\")))",
				"Idle --> Run",
			},
		},
		{
			name: "ID Sanitization",
			snap: &domain.Snapshot{States: []string{"door.open", "half-way", "s'"}},
			contains: []string{
				"door_open(((\"door.open\")))",
				"half_way(((\"half-way\")))",
				"s_(((\"s'\")))",
			},
		},
		{
			name: "Transition Labels",
			snap: &domain.Snapshot{
				States: []string{"A", "B"},
				Transitions: []domain.Transition{
					{Name: "go", Condition: "x eq 1", From: "A", To: "B"},
					{Condition: `mode eq "fast"`, From: "B", To: "A"},
				},
			},
			contains: []string{
				`A -- "go: x eq 1" --> B`,
				`B -- "mode eq 'fast'" --> A`,
			},
		},
		{
			name: "Overlay",
			snap: &domain.Snapshot{
				States:      []string{"A", "B", "C"},
				Transitions: []domain.Transition{{From: "A", To: "B"}, {From: "B", To: "A"}},
			},
			overlay: &graph.GraphOverlay{
				VisitedNodes: []string{"A", "B", "A"},
				CurrentNode:  "B",
				Unreachable:  []string{"C"},
			},
			contains: []string{
				"class A visited;",
				"class B current;",
				"class C unreachable;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_VisitedDeduplicated(t *testing.T) {
	snap := &domain.Snapshot{States: []string{"A"}}
	got := graph.GenerateMermaid(snap, &graph.GraphOverlay{VisitedNodes: []string{"A", "A"}})
	if n := strings.Count(got, "class A visited;"); n != 1 {
		t.Errorf("expected one visited class for A, got %d", n)
	}
}
