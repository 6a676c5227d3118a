package observability

import (
	"log/slog"
	"sync"

	"github.com/aretw0/stm/pkg/domain"
)

// Aggregator combines multiple change hooks into a single one.
// It also counts the events it has seen by type.
type Aggregator struct {
	mu     sync.Mutex
	hooks  []domain.ChangeHook
	counts map[domain.EventType]int
	last   domain.ChangeEvent
}

// NewAggregator creates a new aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		counts: make(map[domain.EventType]int),
	}
}

// AddHook registers a downstream hook.
func (a *Aggregator) AddHook(h domain.ChangeHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, h)
}

// Hook returns the fan-out hook to register with an editor or a session
// manager. Downstream hooks run outside the aggregator lock.
func (a *Aggregator) Hook() domain.ChangeHook {
	return func(ev domain.ChangeEvent) {
		a.mu.Lock()
		a.counts[ev.Type]++
		a.last = ev
		hooks := append([]domain.ChangeHook(nil), a.hooks...)
		a.mu.Unlock()

		for _, h := range hooks {
			h(ev)
		}
	}
}

// Counts returns a copy of the per-type counters.
func (a *Aggregator) Counts() map[domain.EventType]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[domain.EventType]int, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// Last returns the most recent event, if any.
func (a *Aggregator) Last() (domain.ChangeEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, !a.last.Timestamp.IsZero() || a.last.Type != ""
}

// AuditLog returns a hook that logs every change at info level.
func AuditLog(logger *slog.Logger) domain.ChangeHook {
	return func(ev domain.ChangeEvent) {
		attrs := []any{"type", ev.Type}
		if ev.Model != "" {
			attrs = append(attrs, "model_id", ev.Model)
		}
		if ev.Subject != "" {
			attrs = append(attrs, "subject", ev.Subject)
		}
		logger.Info("Model changed", attrs...)
	}
}
