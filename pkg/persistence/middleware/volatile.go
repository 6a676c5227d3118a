package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/ports"
)

type volatileMiddleware struct {
	next     ports.ModelStore
	patterns []*regexp.Regexp
}

// NewVolatileInputsMiddleware creates a middleware that stores inputs whose
// names match one of the patterns at their default value. Live readings
// such as sensor inputs then never outlive the process that set them.
func NewVolatileInputsMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.ModelStore) ports.ModelStore {
		return &volatileMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *volatileMiddleware) Save(ctx context.Context, id string, snap *domain.Snapshot) error {
	// Clone so the caller's snapshot keeps its live values.
	cloned := snap.Clone()
	for i, in := range cloned.Inputs {
		if m.matches(in.Name) {
			cloned.Inputs[i].Value = domain.DefaultInputValue
		}
	}
	return m.next.Save(ctx, id, cloned)
}

func (m *volatileMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *volatileMiddleware) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *volatileMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *volatileMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
