/*
Package session implements multi-model editing on top of a ports.ModelStore.

Every access to a model runs under a per-model lock (reference counted, so
idle models hold no memory) and, when configured, a distributed lock shared
by all replicas. Edit loads the snapshot into an stm.Editor, applies the
caller's changes and saves the result; a failed edit saves nothing.
*/
package session
