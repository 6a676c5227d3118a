/*
Package analysis holds the read-only consumers of a state machine model.

The analyzer enumerates terminal states, checks strong reachability and
applies a one-hop symmetry heuristic to flag state pairs that look
redundant. The trace generator walks the adjacency index greedily,
preferring the least visited successor, to produce coverage-oriented
paths; it ignores conditions. Next and Run instead simulate the machine
by evaluating conditions against the current inputs.

None of these are formal analyses. StronglyConnected is a reachability
fixpoint per state and RedundantPairs is not minimization.
*/
package analysis
