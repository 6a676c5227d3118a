/*
Package synth derives input values that force a condition true.

The synthesizer is deliberately shallow. A condition is flattened into
atomic comparisons (AND/OR structure is discarded), each atom is solved on
its own by an operator-specific rule, and the resulting values are written
back left to right. Each atom holds afterwards; the compound condition is
not re-verified, and contradictory atoms resolve to the last writer.
*/
package synth
