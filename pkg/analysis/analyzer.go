package analysis

import (
	"slices"
	"sort"
)

// Graph is the read side of a model needed by the analyzer.
type Graph interface {
	States() []string
	HasState(name string) bool
	Successors(name string) []string
	HasSuccessors(name string) bool
}

// ConditionGraph extends Graph with transition guards.
type ConditionGraph interface {
	Graph
	Condition(src, dest string) (string, bool)
}

// TerminalStates returns the states without outgoing transitions, in state order.
func TerminalStates(g Graph) []string {
	var out []string
	for _, s := range g.States() {
		if !g.HasSuccessors(s) {
			out = append(out, s)
		}
	}
	return out
}

// Reachable returns every state a forward walk from start visits,
// start included, in visit order.
func Reachable(g Graph, start string) []string {
	visited := []string{start}
	seen := map[string]bool{start: true}
	for i := 0; i < len(visited); i++ {
		for _, next := range g.Successors(visited[i]) {
			if !seen[next] {
				seen[next] = true
				visited = append(visited, next)
			}
		}
	}
	return visited
}

// Unreachable returns the states a forward walk from start never visits.
func Unreachable(g Graph, start string) []string {
	seen := make(map[string]bool)
	for _, s := range Reachable(g, start) {
		seen[s] = true
	}
	var out []string
	for _, s := range g.States() {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// StronglyConnected reports whether every state reaches every other state.
// An empty model is strongly connected.
func StronglyConnected(g Graph) bool {
	states := g.States()
	for _, s := range states {
		if len(Reachable(g, s)) != len(states) {
			return false
		}
	}
	return true
}

// RedundantPairs flags pairs of states {a, b} entered from a common state
// under the same condition that also lead to a common destination under
// the same condition. Each pair appears once, members sorted.
func RedundantPairs(g ConditionGraph) [][2]string {
	var pairs [][2]string
	seen := make(map[[2]string]bool)

	for _, s := range g.States() {
		succ := g.Successors(s)
		for _, a := range succ {
			for _, b := range succ {
				if a == b || !sameCondition(g, s, a, s, b) {
					continue
				}
				for _, cd := range commonSuccessors(g, a, b) {
					if !sameCondition(g, a, cd, b, cd) {
						continue
					}
					pair := [2]string{a, b}
					sort.Strings(pair[:])
					if !seen[pair] {
						seen[pair] = true
						pairs = append(pairs, pair)
					}
				}
			}
		}
	}
	return pairs
}

func sameCondition(g ConditionGraph, src1, dest1, src2, dest2 string) bool {
	c1, ok1 := g.Condition(src1, dest1)
	c2, ok2 := g.Condition(src2, dest2)
	return ok1 && ok2 && c1 == c2
}

// commonSuccessors intersects the successor lists of a and b in the order of a.
func commonSuccessors(g Graph, a, b string) []string {
	sb := g.Successors(b)
	var out []string
	for _, s := range g.Successors(a) {
		if slices.Contains(sb, s) {
			out = append(out, s)
		}
	}
	return out
}

// Report bundles the analyzer results for one model.
type Report struct {
	States            int         `json:"states"`
	Transitions       int         `json:"transitions"`
	Inputs            int         `json:"inputs"`
	TerminalStates    []string    `json:"terminal_states"`
	StronglyConnected bool        `json:"strongly_connected"`
	RedundantPairs    [][2]string `json:"redundant_pairs"`
	// Unreachable is filled only when a start state is given.
	Start       string   `json:"start,omitempty"`
	Unreachable []string `json:"unreachable,omitempty"`
}

// Model is everything Analyze needs.
type Model interface {
	ConditionGraph
	TransitionCount() int
	InputCount() int
}

// Analyze runs every check. start may be empty.
func Analyze(m Model, start string) Report {
	r := Report{
		States:            len(m.States()),
		Transitions:       m.TransitionCount(),
		Inputs:            m.InputCount(),
		TerminalStates:    TerminalStates(m),
		StronglyConnected: StronglyConnected(m),
		RedundantPairs:    RedundantPairs(m),
	}
	if start != "" && m.HasState(start) {
		r.Start = start
		r.Unreachable = Unreachable(m, start)
	}
	return r
}
