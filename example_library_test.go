package stm_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/dsl"
	"github.com/aretw0/stm/pkg/session"
)

// Example_library shows stm embedded as a Go library: a model is declared
// with the dsl builder, stored in memory and edited through a session
// manager, which serializes concurrent edits of the same model.
func Example_library() {
	b := dsl.New("ring")
	b.State("A").Branch("x eq 1", "B")
	b.State("B").Go("C")
	b.State("C").Go("A")

	snap, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	manager := session.NewManager(memory.NewStore(),
		session.WithChangeHook(func(ev domain.ChangeEvent) {
			fmt.Println("event:", ev.Type, ev.Subject)
		}),
	)

	id, err := manager.Create(ctx, snap)
	if err != nil {
		log.Fatal(err)
	}

	err = manager.Edit(ctx, id, func(ed *stm.Editor) error {
		return ed.UpdateInput("x", "1")
	})
	if err != nil {
		log.Fatal(err)
	}

	err = manager.View(ctx, id, func(ed *stm.Editor) error {
		path, err := ed.Run("A", 3)
		fmt.Println("run:", path)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	// Output:
	// event: input_changed x
	// run: [A B C A]
}
