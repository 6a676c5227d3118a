package file

import "github.com/aretw0/stm/pkg/domain"

// Source implements ports.ModelSource over a single model file.
type Source struct {
	Path string
}

// NewSource creates a source for path. The format follows the extension.
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Read implements ports.ModelSource.
func (s *Source) Read() (*domain.Snapshot, error) {
	return ReadModel(s.Path)
}

// Write implements ports.ModelSource.
func (s *Source) Write(snap *domain.Snapshot) error {
	return WriteModel(s.Path, snap)
}
