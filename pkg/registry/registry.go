// Package registry maps export format names to the functions that render a
// model snapshot in that format.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aretw0/stm/pkg/domain"
)

// ErrExporterNotFound is returned by Export for an unregistered format.
var ErrExporterNotFound = errors.New("exporter not found")

// Exporter renders snap to w.
type Exporter func(w io.Writer, snap *domain.Snapshot) error

// Registry manages the available exporters.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[string]Exporter),
	}
}

// Register adds an exporter to the registry.
// If an exporter with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[name] = fn
}

// Names lists the registered formats, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export looks up an exporter by name and runs it.
func (r *Registry) Export(name string, w io.Writer, snap *domain.Snapshot) error {
	r.mu.RLock()
	fn, ok := r.exporters[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrExporterNotFound, name, r.Names())
	}
	return fn(w, snap)
}
