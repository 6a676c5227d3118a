/*
Package domain contains the core entities of the stm state machine model.

It defines states, transitions and inputs, the snapshot shape exchanged with
persistence and code generation collaborators, change events, and the fixed
set of failure reasons every operation reports. The package is pure: no I/O,
no dependencies beyond the standard library.

# Key Entities

  - State: a named node of the machine. The name is its identity.
  - Transition: the single edge for an ordered (From, To) pair, guarded by a condition.
  - Input: a named value (integer or boolean literal) referenced by conditions.
  - Snapshot: the full, ordered content of a model, used for persistence and export.
*/
package domain
