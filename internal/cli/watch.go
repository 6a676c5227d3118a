package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/stm"
	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before the model is re-read.
const settleDelay = 100 * time.Millisecond

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Path   string
	Out    io.Writer
	Logger *slog.Logger
	// Report is called with the freshly loaded model after every change.
	Report func(*stm.Editor) error
}

// RunWatch re-reads the model file whenever it changes and reports on it,
// until ctx is done. Broken documents are logged and the watch goes on.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return err
	}
	// Watch the directory: atomic saves replace the file.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Path, err)
	}

	ws := NewWorkspace(opts.Path, opts.Logger)
	reload := func() {
		ed, err := ws.Open()
		if err != nil {
			opts.Logger.Error("Model reload failed", "path", opts.Path, "error", err)
			PrintSystemMessage(opts.Out, "Model has errors, waiting for changes...")
			return
		}
		if err := opts.Report(ed); err != nil {
			opts.Logger.Error("Report failed", "error", err)
		}
	}

	opts.Logger.Info("Starting Watcher", "path", abs)
	PrintSystemMessage(opts.Out, "Watching '%s'.", opts.Path)
	reload()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			PrintSystemMessage(opts.Out, "Watcher stopped.")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			opts.Logger.Debug("Change detected", "event", ev.String())
			pending = time.After(settleDelay)
		case <-pending:
			pending = nil
			PrintSystemMessage(opts.Out, "Change detected in '%s'.", opts.Path)
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("Watcher error", "error", err)
		}
	}
}
