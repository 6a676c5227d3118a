package memory

import (
	"sync"

	"github.com/aretw0/stm/pkg/domain"
)

// Source implements ports.ModelSource over a snapshot held in memory.
// It stands in for a model file in tests and embedded use.
type Source struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

// NewSource creates a source holding a copy of snap. snap may be nil.
func NewSource(snap *domain.Snapshot) *Source {
	return &Source{snap: snap.Clone()}
}

// Read returns a copy of the held snapshot.
func (s *Source) Read() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return &domain.Snapshot{}, nil
	}
	return s.snap.Clone(), nil
}

// Write replaces the held snapshot.
func (s *Source) Write(snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}
