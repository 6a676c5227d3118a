package main

import (
	"fmt"

	"github.com/aretw0/stm"
	"github.com/spf13/cobra"
)

// edit applies fn to the model file and reports each change.
func edit(cmd *cobra.Command, fn func(*stm.Editor) error) error {
	events, err := workspace().Edit(fn)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ev.Type, ev.Subject)
	}
	return nil
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Add, rename or remove states",
}

var stateAddCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add states",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			for _, name := range args {
				if err := ed.AddState(name); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var stateRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a state, rewriting its transitions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			return ed.RenameState(args[0], args[1])
		})
	},
}

var stateRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Remove a state with every transition touching it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			return ed.RemoveState(args[0])
		})
	},
}

var transitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Add, update or remove transitions",
}

var transitionAddCmd = &cobra.Command{
	Use:   "add FROM TO [CONDITION]",
	Short: "Add a guarded transition, merging into an existing one with ||",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		cond := ""
		if len(args) == 3 {
			cond = args[2]
		}
		return edit(cmd, func(ed *stm.Editor) error {
			_, err := ed.AddTransition(name, cond, args[0], args[1])
			return err
		})
	},
}

var transitionUpdateCmd = &cobra.Command{
	Use:   "update FROM TO CONDITION",
	Short: "Replace the guard of a transition",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		return edit(cmd, func(ed *stm.Editor) error {
			if name == "" {
				if t, ok := ed.Transition(args[0], args[1]); ok {
					name = t.Name
				}
			}
			return ed.UpdateTransition(name, args[2], args[0], args[1])
		})
	},
}

var transitionRemoveCmd = &cobra.Command{
	Use:     "rm FROM TO",
	Aliases: []string{"remove"},
	Short:   "Remove a transition",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			return ed.RemoveTransition(args[0], args[1])
		})
	},
}

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Set or remove inputs",
}

var inputSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Set an input, declaring it if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			return ed.UpdateInput(args[0], args[1])
		})
	},
}

var inputRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Remove an input",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, func(ed *stm.Editor) error {
			return ed.RemoveInput(args[0])
		})
	},
}

func init() {
	stateCmd.AddCommand(stateAddCmd, stateRenameCmd, stateRemoveCmd)
	transitionCmd.AddCommand(transitionAddCmd, transitionUpdateCmd, transitionRemoveCmd)
	inputCmd.AddCommand(inputSetCmd, inputRemoveCmd)
	rootCmd.AddCommand(stateCmd, transitionCmd, inputCmd)

	transitionAddCmd.Flags().String("name", "", "Transition name (default t<N>)")
	transitionUpdateCmd.Flags().String("name", "", "New transition name (default keeps the current one)")
}
