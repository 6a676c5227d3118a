package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/ports"
)

// Workspace is the model the editing commands work on.
type Workspace struct {
	Source ports.ModelSource
	Logger *slog.Logger
}

// NewWorkspace opens the model document at path.
func NewWorkspace(path string, logger *slog.Logger) *Workspace {
	return &Workspace{Source: file.NewSource(path), Logger: logger}
}

// Open reads the model into a fresh editor.
func (w *Workspace) Open() (*stm.Editor, error) {
	snap, err := w.Source.Read()
	if err != nil {
		return nil, err
	}
	ed, err := stm.FromSnapshot(snap, stm.WithLogger(w.Logger))
	if err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return ed, nil
}

// Edit applies fn and writes the model back. Nothing is written when fn
// fails. The events fn produced are returned in order.
func (w *Workspace) Edit(fn func(*stm.Editor) error) ([]domain.ChangeEvent, error) {
	snap, err := w.Source.Read()
	if err != nil {
		return nil, err
	}
	var events []domain.ChangeEvent
	ed, err := stm.FromSnapshot(snap,
		stm.WithLogger(w.Logger),
		stm.WithChangeHook(func(ev domain.ChangeEvent) {
			events = append(events, ev)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	if err := fn(ed); err != nil {
		return nil, err
	}
	if err := w.Source.Write(ed.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}
	for _, ev := range events {
		w.Logger.Debug("Model changed", "type", ev.Type, "subject", ev.Subject)
	}
	return events, nil
}
