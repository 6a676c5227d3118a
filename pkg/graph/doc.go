/*
Package graph is the FSM graph store.

A Model owns three insertion-ordered tables (states, transitions, inputs)
and two adjacency indices derived from the transition table:

	forward: source      -> destinations, in insertion order
	reverse: destination -> sources,      in insertion order

Every transition (src, dest) appears exactly once in forward[src] and once
in reverse[dest], and empty lists are pruned so "has no successors" is the
same as "has no forward entry". Failed operations leave the model untouched.

A Model is not safe for concurrent use; the stm.Editor wraps it with a
single-writer lock.
*/
package graph
