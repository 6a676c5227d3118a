/*
Package ports defines the driven ports (interfaces) of the stm services.

These interfaces decouple model editing from external implementations, so the
same session manager runs over memory, a directory of files or Redis.

# Key Interfaces

  - ModelStore: persists model snapshots by ID.
  - ModelSource: reads and writes one model document.
  - DistributedLocker: serializes edits of one model across replicas.
*/
package ports
