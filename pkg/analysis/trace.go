package analysis

import (
	"fmt"
	"strings"

	"github.com/aretw0/stm/pkg/condition"
	"github.com/aretw0/stm/pkg/domain"
)

// Trace walks steps transitions from start and returns the steps+1 states
// visited. At every step the successor with the fewest visits so far is
// taken; ties go to the earliest entry in the adjacency list. Conditions
// are ignored.
func Trace(g Graph, start string, steps int) ([]string, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSteps, steps)
	}
	if !g.HasState(start) {
		return nil, fmt.Errorf("%w: %q", domain.ErrStateNotFound, start)
	}

	visits := map[string]int{start: 1}
	trace := make([]string, 0, steps+1)
	trace = append(trace, start)

	current := start
	for i := 0; i < steps; i++ {
		succ := g.Successors(current)
		if len(succ) == 0 {
			return trace, fmt.Errorf("%w: %q after %d steps", domain.ErrDeadEnd, current, i)
		}
		next := succ[0]
		for _, s := range succ[1:] {
			if visits[s] < visits[next] {
				next = s
			}
		}
		current = next
		visits[current]++
		trace = append(trace, current)
	}
	return trace, nil
}

// Simulator is a model whose guards can be evaluated.
type Simulator interface {
	ConditionGraph
	condition.Lookup
}

// Next returns the first successor of state, in adjacency order, whose
// transition condition holds for the current inputs. An empty condition
// always holds. ok is false when no transition fires.
func Next(sim Simulator, state string) (next string, ok bool, err error) {
	if !sim.HasState(state) {
		return "", false, fmt.Errorf("%w: %q", domain.ErrStateNotFound, state)
	}
	for _, dest := range sim.Successors(state) {
		cond, _ := sim.Condition(state, dest)
		if strings.TrimSpace(cond) == "" {
			return dest, true, nil
		}
		fires, err := condition.Evaluate(cond, sim)
		if err != nil {
			return "", false, fmt.Errorf("transition %s|%s: %w", state, dest, err)
		}
		if fires {
			return dest, true, nil
		}
	}
	return "", false, nil
}

// Run repeats Next from start until no transition fires or maxSteps
// transitions were taken, and returns the path including start.
func Run(sim Simulator, start string, maxSteps int) ([]string, error) {
	if maxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSteps, maxSteps)
	}
	if !sim.HasState(start) {
		return nil, fmt.Errorf("%w: %q", domain.ErrStateNotFound, start)
	}
	path := []string{start}
	current := start
	for i := 0; i < maxSteps; i++ {
		next, ok, err := Next(sim, current)
		if err != nil {
			return path, err
		}
		if !ok {
			break
		}
		current = next
		path = append(path, current)
	}
	return path, nil
}
