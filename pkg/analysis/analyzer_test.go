package analysis_test

import (
	"testing"

	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct{ src, dest, cond string }

func build(t *testing.T, states []string, edges ...edge) *graph.Model {
	t.Helper()
	m := graph.New()
	require.NoError(t, m.AddStates(states))
	for _, e := range edges {
		_, err := m.AddTransition("", e.cond, e.src, e.dest)
		require.NoError(t, err)
	}
	return m
}

func TestTerminalStates(t *testing.T) {
	m := build(t, []string{"A", "B", "C"}, edge{"A", "B", ""}, edge{"B", "C", ""})
	assert.Equal(t, []string{"C"}, analysis.TerminalStates(m))
}

func TestStronglyConnected(t *testing.T) {
	tests := []struct {
		name   string
		states []string
		edges  []edge
		want   bool
	}{
		{"empty", nil, nil, true},
		{"single state", []string{"A"}, nil, true},
		{"ring", []string{"A", "B", "C"}, []edge{{"A", "B", ""}, {"B", "C", ""}, {"C", "A", ""}}, true},
		{"ring plus isolated", []string{"A", "B", "C", "D"}, []edge{{"A", "B", ""}, {"B", "C", ""}, {"C", "A", ""}}, false},
		{"chain", []string{"A", "B"}, []edge{{"A", "B", ""}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t, tt.states, tt.edges...)
			assert.Equal(t, tt.want, analysis.StronglyConnected(m))
		})
	}
}

func TestUnreachable(t *testing.T) {
	m := build(t, []string{"A", "B", "C", "D"}, edge{"A", "B", ""}, edge{"C", "D", ""})
	assert.Equal(t, []string{"A", "B"}, analysis.Reachable(m, "A"))
	assert.Equal(t, []string{"C", "D"}, analysis.Unreachable(m, "A"))
}

func TestRedundantPairs(t *testing.T) {
	m := build(t, []string{"S", "B", "A", "E", "X"},
		edge{"S", "B", "go==1"},
		edge{"S", "A", "go==1"},
		edge{"B", "E", "done==1"},
		edge{"A", "E", "done==1"},
		edge{"S", "X", "go==2"},
		edge{"X", "E", "done==1"},
	)
	assert.Equal(t, [][2]string{{"A", "B"}}, analysis.RedundantPairs(m))
}

func TestRedundantPairs_DifferentExitCondition(t *testing.T) {
	m := build(t, []string{"S", "A", "B", "E"},
		edge{"S", "A", "go==1"},
		edge{"S", "B", "go==1"},
		edge{"A", "E", "done==1"},
		edge{"B", "E", "done==2"},
	)
	assert.Empty(t, analysis.RedundantPairs(m))
}

func TestAnalyze(t *testing.T) {
	m := build(t, []string{"A", "B", "C"}, edge{"A", "B", "x==1"}, edge{"B", "C", ""})

	r := analysis.Analyze(m, "B")
	assert.Equal(t, 3, r.States)
	assert.Equal(t, 2, r.Transitions)
	assert.Equal(t, 1, r.Inputs)
	assert.Equal(t, []string{"C"}, r.TerminalStates)
	assert.False(t, r.StronglyConnected)
	assert.Equal(t, []string{"A"}, r.Unreachable)

	r = analysis.Analyze(m, "")
	assert.Empty(t, r.Start)
	assert.Nil(t, r.Unreachable)
}
