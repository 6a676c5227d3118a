package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_FansOutAndCounts(t *testing.T) {
	agg := observability.NewAggregator()

	var first, second []domain.EventType
	agg.AddHook(func(ev domain.ChangeEvent) { first = append(first, ev.Type) })
	agg.AddHook(func(ev domain.ChangeEvent) { second = append(second, ev.Type) })

	_, ok := agg.Last()
	assert.False(t, ok)

	ed := stm.New(stm.WithChangeHook(agg.Hook()))
	require.NoError(t, ed.AddState("A"))
	require.NoError(t, ed.AddState("B"))
	_, err := ed.AddTransition("", "x == 1", "A", "B")
	require.NoError(t, err)

	want := []domain.EventType{domain.EventStateAdded, domain.EventStateAdded, domain.EventTransitionAdded}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)

	counts := agg.Counts()
	assert.Equal(t, 2, counts[domain.EventStateAdded])
	assert.Equal(t, 1, counts[domain.EventTransitionAdded])

	last, ok := agg.Last()
	require.True(t, ok)
	assert.Equal(t, "A|B", last.Subject)
}

func TestAuditLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	hook := observability.AuditLog(logger)
	hook(domain.ChangeEvent{Type: domain.EventStateRemoved, Model: "m1", Subject: "Idle"})

	out := buf.String()
	assert.Contains(t, out, "Model changed")
	assert.Contains(t, out, "type=state_removed")
	assert.Contains(t, out, "model_id=m1")
	assert.Contains(t, out, "subject=Idle")
}
