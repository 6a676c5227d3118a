/*
Package dsl provides a Go DSL for programmatically constructing stm models.

It allows developers to define state machines using a fluent builder instead
of YAML or JSON documents. This is useful for generated models, unit tests
and IDE autocompletion.

Example usage:

	b := dsl.New("door")

	b.State("Closed").
		Branch("push == 1", "Open").
		Branch("key > 0", "Locked")

	b.State("Open").
		Branch("push == 0", "Closed").Named("close")

	b.State("Locked").Terminal()

	snap, err := b.Build() // normalized *domain.Snapshot
	ed, err := b.Editor()  // or a ready *stm.Editor
*/
package dsl
