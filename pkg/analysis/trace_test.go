package analysis_test

import (
	"testing"

	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_LeastVisitedFirst(t *testing.T) {
	m := build(t, []string{"A", "B", "C"},
		edge{"A", "B", ""}, edge{"A", "C", ""},
		edge{"B", "A", ""}, edge{"C", "A", ""},
	)

	trace, err := analysis.Trace(m, "A", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A", "C", "A"}, trace)
}

func TestTrace_Deterministic(t *testing.T) {
	m := build(t, []string{"A", "B", "C"},
		edge{"A", "B", ""}, edge{"A", "C", ""},
		edge{"B", "A", ""}, edge{"C", "A", ""},
	)
	first, err := analysis.Trace(m, "A", 10)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := analysis.Trace(m, "A", 10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Len(t, first, 11)
}

func TestTrace_ZeroSteps(t *testing.T) {
	m := build(t, []string{"A"})
	trace, err := analysis.Trace(m, "A", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, trace)
}

func TestTrace_Errors(t *testing.T) {
	m := build(t, []string{"A", "B"}, edge{"A", "B", ""})

	trace, err := analysis.Trace(m, "A", 3)
	assert.ErrorIs(t, err, domain.ErrDeadEnd)
	assert.Equal(t, []string{"A", "B"}, trace, "partial trace is returned")

	_, err = analysis.Trace(m, "Z", 1)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	_, err = analysis.Trace(m, "A", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidSteps)
}

func TestNext(t *testing.T) {
	m := build(t, []string{"Idle", "Run", "Fault"},
		edge{"Idle", "Fault", "err eq 1"},
		edge{"Idle", "Run", "speed gt 0"},
		edge{"Run", "Idle", ""},
	)

	_, ok, err := analysis.Next(m, "Idle")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.UpdateInput("speed", "3"))
	next, ok, err := analysis.Next(m, "Idle")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Run", next)

	require.NoError(t, m.UpdateInput("err", "1"))
	next, _, err = analysis.Next(m, "Idle")
	require.NoError(t, err)
	assert.Equal(t, "Fault", next, "first firing successor in adjacency order wins")

	next, ok, err = analysis.Next(m, "Run")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Idle", next, "empty condition always fires")
}

func TestNext_MalformedCondition(t *testing.T) {
	m := build(t, []string{"A", "B"}, edge{"A", "B", "x == 1"})
	require.NoError(t, m.RemoveInput("x"))

	_, _, err := analysis.Next(m, "A")
	assert.ErrorIs(t, err, domain.ErrMalformedExpression)
}

func TestRun(t *testing.T) {
	m := build(t, []string{"A", "B", "C"},
		edge{"A", "B", "go == 1"},
		edge{"B", "C", ""},
	)
	require.NoError(t, m.UpdateInput("go", "True"))

	path, err := analysis.Run(m, "A", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, path)

	path, err = analysis.Run(m, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, path)
}
