package dsl

import (
	"testing"

	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Door(t *testing.T) {
	b := New("door")
	b.Input("key", "0")

	b.State("Closed").
		Branch("push == 1", "Open").
		Branch("key > 0", "Locked")

	b.State("Open").
		Branch("push == 0", "Closed").Named("close")

	b.State("Locked").Terminal()

	snap, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "door", snap.Name)
	assert.Equal(t, []string{"Closed", "Open", "Locked"}, snap.States)
	assert.Equal(t, []domain.Transition{
		{Name: "t1", Condition: "push == 1", From: "Closed", To: "Open"},
		{Name: "t2", Condition: "key > 0", From: "Closed", To: "Locked"},
		{Name: "close", Condition: "push == 0", From: "Open", To: "Closed"},
	}, snap.Transitions)
	assert.Equal(t, []domain.Input{{Name: "key", Value: "0"}, {Name: "push", Value: "0"}}, snap.Inputs)
}

func TestBuilder_MergesBranchesToSameTarget(t *testing.T) {
	b := New("m")
	b.State("A").
		Branch("x == 1", "B").
		Branch("y == 2", "B").
		State("B").Go("A")

	snap, err := b.Build()
	require.NoError(t, err)
	require.Len(t, snap.Transitions, 2)
	assert.Equal(t, "x == 1 || y == 2", snap.Transitions[0].Condition)
	assert.Equal(t, "", snap.Transitions[1].Condition)
}

func TestBuilder_UndeclaredTarget(t *testing.T) {
	b := New("m")
	b.State("A").Go("Nowhere")

	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidEndpoint)
}

func TestBuilder_StateIsIdempotent(t *testing.T) {
	b := New("m")
	first := b.State("A")
	assert.Same(t, first, b.State("A"))
}

func TestBuilder_Editor(t *testing.T) {
	b := New("ring")
	b.State("A").Go("B")
	b.State("B").Go("C")
	b.State("C").Go("A")

	ed, err := b.Editor()
	require.NoError(t, err)
	assert.Equal(t, "ring", ed.Name)
	assert.True(t, ed.Analyze("").StronglyConnected)

	path, err := ed.Run("A", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "A"}, path)
}
