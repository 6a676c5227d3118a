package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/persistence/middleware"
)

func TestVolatileInputsMiddleware(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw, err := middleware.NewVolatileInputsMiddleware([]string{"^sensor_", "temp"})
	if err != nil {
		t.Fatal(err)
	}
	store := mw(underlyingStore)

	ctx := context.Background()
	snap := &domain.Snapshot{
		States: []string{"Idle"},
		Inputs: []domain.Input{
			{Name: "sensor_door", Value: "1"},
			{Name: "room_temp", Value: "22"},
			{Name: "mode", Value: "2"},
		},
	}

	if err := store.Save(ctx, "m", snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The caller's snapshot keeps its live values.
	if snap.Inputs[0].Value != "1" {
		t.Error("Middleware modified the caller's snapshot!")
	}

	stored, err := underlyingStore.Load(ctx, "m")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	want := []domain.Input{
		{Name: "sensor_door", Value: "0"},
		{Name: "room_temp", Value: "0"},
		{Name: "mode", Value: "2"},
	}
	for i, in := range stored.Inputs {
		if in != want[i] {
			t.Errorf("input %d: got %+v, want %+v", i, in, want[i])
		}
	}
}

func TestVolatileInputsMiddleware_BadPattern(t *testing.T) {
	if _, err := middleware.NewVolatileInputsMiddleware([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}
