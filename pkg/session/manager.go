package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/internal/logging"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed model lock is held when the
// holder dies before releasing it.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates model access, ensuring safe concurrent edits.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ModelStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-model locks

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   []domain.ChangeHook
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the editors it opens.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithChangeHook registers a hook for changes made through Edit. Events
// carry the model ID and are delivered only after the edit was saved.
func WithChangeHook(hook domain.ChangeHook) Option {
	return func(m *Manager) {
		m.hooks = append(m.hooks, hook)
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.ModelStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create stores snap under a fresh ID and returns the ID. snap may be nil.
func (m *Manager) Create(ctx context.Context, snap *domain.Snapshot) (string, error) {
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	id := uuid.NewString()

	// Normalize through an editor so a stored model always satisfies the
	// graph invariants.
	ed, err := stm.FromSnapshot(snap, stm.WithLogger(m.logger))
	if err != nil {
		return "", fmt.Errorf("invalid model: %w", err)
	}
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, ed.Snapshot())
	})
	if err != nil {
		return "", err
	}
	m.logger.Debug("model created", "model_id", id)
	return id, nil
}

// Load returns the stored snapshot of a model.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, id)
		return err
	})
	return snap, err
}

// Edit opens the model, applies fn and saves the result, all under the
// model lock. Nothing is saved when fn fails.
func (m *Manager) Edit(ctx context.Context, id string, fn func(*stm.Editor) error) error {
	var events []domain.ChangeEvent
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		ed, err := m.open(ctx, id, stm.WithChangeHook(func(ev domain.ChangeEvent) {
			ev.Model = id
			events = append(events, ev)
		}))
		if err != nil {
			return err
		}
		if err := fn(ed); err != nil {
			return err
		}
		return m.store.Save(ctx, id, ed.Snapshot())
	})
	if err != nil {
		return err
	}
	for _, ev := range events {
		for _, h := range m.hooks {
			h(ev)
		}
	}
	return nil
}

// View opens the model read-only and passes it to fn. Changes fn makes
// are discarded.
func (m *Manager) View(ctx context.Context, id string, fn func(*stm.Editor) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		ed, err := m.open(ctx, id)
		if err != nil {
			return err
		}
		return fn(ed)
	})
}

func (m *Manager) open(ctx context.Context, id string, opts ...stm.Option) (*stm.Editor, error) {
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	opts = append(opts, stm.WithLogger(m.logger.With("model_id", id)))
	ed, err := stm.FromSnapshot(snap, opts...)
	if err != nil {
		// Keep what loaded; the next save rewrites a consistent snapshot.
		m.logger.Warn("stored model loaded with errors", "model_id", id, "error", err)
	}
	return ed, nil
}

// Delete removes the model from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err != nil {
			return err
		}
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying model store.
func (m *Manager) Store() ports.ModelStore {
	return m.store
}

// WithLock executes fn while holding the lock for the model.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a canceled request still unlocks.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"model_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// IsNotFound reports whether err means the model does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrModelNotFound)
}
