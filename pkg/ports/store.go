package ports

import (
	"context"

	"github.com/aretw0/stm/pkg/domain"
)

// ModelStore defines the interface for persisting model snapshots by ID.
// It backs the multi-model editing service.
type ModelStore interface {
	// Save persists the snapshot for a given model ID.
	Save(ctx context.Context, id string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given model ID.
	// Returns domain.ErrModelNotFound if the model does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes the model. Deleting a missing model is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored model.
	List(ctx context.Context) ([]string, error)
}
