/*
Package stm is an editing and analysis engine for finite state machines whose
transitions are guarded by boolean conditions over named integer inputs.

A model holds states, at most one transition per ordered (source, destination)
pair, and an input table. Conditions are written in either of two spellings
that translate losslessly into each other:

	speed gt 10 and door eq 0
	speed>10&&door==0

Adding a second transition between the same pair merges the new condition
into the existing one as an alternative. Removing a state removes every
transition touching it.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/stm"
	)

	func main() {
		ed := stm.New(stm.WithName("door"))
		for _, s := range []string{"Closed", "Open"} {
			if err := ed.AddState(s); err != nil {
				log.Fatal(err)
			}
		}
		if _, err := ed.AddTransition("open", "button eq 1", "Closed", "Open"); err != nil {
			log.Fatal(err)
		}

		// Force the guard true and step the machine.
		if _, err := ed.SynthesizeTransition("Closed", "Open"); err != nil {
			log.Fatal(err)
		}
		next, ok, err := ed.Next("Closed")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(next, ok) // Open true
	}

# Architecture

The core lives in pkg/: condition (translation and a closed-grammar
evaluator), graph (the store), synth (input synthesis) and analysis
(reachability, terminal states, redundant pairs, trace generation). The
Editor wraps one graph.Model behind a read/write lock. Persistence and
transport adapters live in pkg/adapters and talk to the core only through
snapshots.
*/
package stm
