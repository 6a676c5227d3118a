package graph

import (
	"fmt"
	"slices"

	"github.com/aretw0/stm/pkg/domain"
)

// CheckIndex verifies that the adjacency indices agree exactly with the
// transition table and hold no empty lists.
func (m *Model) CheckIndex() error {
	fwd := 0
	for src, dests := range m.forward {
		if len(dests) == 0 {
			return fmt.Errorf("%w: empty forward entry for %q", domain.ErrInconsistentIndex, src)
		}
		for _, dest := range dests {
			fwd++
			if !m.HasTransition(src, dest) {
				return fmt.Errorf("%w: forward %s -> %s has no transition", domain.ErrInconsistentIndex, src, dest)
			}
			if !slices.Contains(m.reverse[dest], src) {
				return fmt.Errorf("%w: forward %s -> %s missing from reverse", domain.ErrInconsistentIndex, src, dest)
			}
		}
	}

	rev := 0
	for dest, srcs := range m.reverse {
		if len(srcs) == 0 {
			return fmt.Errorf("%w: empty reverse entry for %q", domain.ErrInconsistentIndex, dest)
		}
		for _, src := range srcs {
			rev++
			if !m.HasTransition(src, dest) {
				return fmt.Errorf("%w: reverse %s <- %s has no transition", domain.ErrInconsistentIndex, dest, src)
			}
		}
	}

	if n := m.transitions.len(); fwd != n || rev != n {
		return fmt.Errorf("%w: %d transitions, %d forward and %d reverse entries",
			domain.ErrInconsistentIndex, n, fwd, rev)
	}
	for _, key := range m.transitions.keys {
		if !m.states.has(key.From) || !m.states.has(key.To) {
			return fmt.Errorf("%w: transition %s references a missing state", domain.ErrInconsistentIndex, key)
		}
	}
	return nil
}
