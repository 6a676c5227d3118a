package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Name:   "door",
		States: []string{"Closed", "Open"},
		Transitions: []domain.Transition{
			{Name: "open", Condition: "button eq 1", From: "Closed", To: "Open"},
			{Name: "close", Condition: "button eq 0 or timer gt 30", From: "Open", To: "Closed"},
		},
		Inputs: []domain.Input{{Name: "button", Value: "0"}, {Name: "timer", Value: "0"}},
	}
}

// RunModelStoreContract runs a suite of tests to verify that a ModelStore
// implementation adheres to the defined interface contract.
func RunModelStoreContract(t *testing.T, store ModelStore) {
	ctx := context.Background()
	modelID := "contract-test-model-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot()

		err := store.Save(ctx, modelID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, modelID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded, "order and content must survive persistence")
	})

	t.Run("Stored copy is independent", func(t *testing.T) {
		snap := contractSnapshot()
		require.NoError(t, store.Save(ctx, modelID, snap))

		snap.States[0] = "mutated"
		loaded, err := store.Load(ctx, modelID)
		require.NoError(t, err)
		assert.Equal(t, "Closed", loaded.States[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+modelID)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, modelID, contractSnapshot())
		require.NoError(t, err)

		err = store.Delete(ctx, modelID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, modelID)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := modelID + "-1"
		id2 := modelID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot())
		_ = store.Save(ctx, id2, contractSnapshot())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
