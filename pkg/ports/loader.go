package ports

import "github.com/aretw0/stm/pkg/domain"

// ModelSource reads and writes a single model document, such as the file
// named on the command line.
type ModelSource interface {
	// Read returns the model content. A missing document yields an empty snapshot.
	Read() (*domain.Snapshot, error)

	// Write replaces the document with snap.
	Write(snap *domain.Snapshot) error
}
