package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/internal/logging"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_Edit(t *testing.T) {
	src := memory.NewSource(&domain.Snapshot{States: []string{"A", "B"}})
	ws := &Workspace{Source: src, Logger: logging.NewNop()}

	events, err := ws.Edit(func(ed *stm.Editor) error {
		_, err := ed.AddTransition("", "x == 1", "A", "B")
		return err
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTransitionAdded, events[0].Type)

	snap, err := src.Read()
	require.NoError(t, err)
	require.Len(t, snap.Transitions, 1)
	assert.Equal(t, []domain.Input{{Name: "x", Value: "0"}}, snap.Inputs)
}

func TestWorkspace_FailedEditWritesNothing(t *testing.T) {
	src := memory.NewSource(&domain.Snapshot{States: []string{"A"}})
	ws := &Workspace{Source: src, Logger: logging.NewNop()}

	_, err := ws.Edit(func(ed *stm.Editor) error {
		if err := ed.AddState("B"); err != nil {
			return err
		}
		return ed.RemoveState("missing")
	})
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	snap, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, snap.States)
}

func TestWorkspace_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	ws := NewWorkspace(path, logging.NewNop())

	_, err := ws.Edit(func(ed *stm.Editor) error {
		return errors.Join(ed.AddState("Idle"), ed.AddState("Busy"))
	})
	require.NoError(t, err)

	ed, err := ws.Open()
	require.NoError(t, err)
	assert.Equal(t, []string{"Idle", "Busy"}, ed.States())
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, file.WriteModel(path, &domain.Snapshot{States: []string{"A"}}))

	var mu sync.Mutex
	var seen [][]string
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunWatch(ctx, WatchOptions{
			Path:   path,
			Out:    out,
			Logger: logging.NewNop(),
			Report: func(ed *stm.Editor) error {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, ed.States())
				return nil
			},
		})
	}()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(seen)
	}
	require.Eventually(t, func() bool { return count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("states: [A, B]\n"), 0644))
	require.Eventually(t, func() bool { return count() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A"}, seen[0])
	assert.Equal(t, []string{"A", "B"}, seen[len(seen)-1])
	assert.True(t, strings.Contains(out.String(), "Change detected"))
}
