package main

import (
	"fmt"

	"github.com/aretw0/stm/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [CONDITION]",
	Short: "Evaluate a condition against the current inputs",
	Long: `Prints true or false. Either give the condition text or name a
transition with --from and --to to evaluate its guard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := workspace().Open()
		if err != nil {
			return err
		}
		cond, err := conditionArg(cmd, args, func(src, dest string) (string, error) {
			t, ok := ed.Transition(src, dest)
			if !ok {
				return "", fmt.Errorf("%w: %s -> %s", domain.ErrTransitionNotFound, src, dest)
			}
			return t.Condition, nil
		})
		if err != nil {
			return err
		}
		ok, err := ed.Evaluate(cond)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("from", "", "Source state of the transition to evaluate")
	evalCmd.Flags().String("to", "", "Destination state of the transition to evaluate")
}

// conditionArg returns the positional condition or, with --from and --to,
// what lookup finds for that transition.
func conditionArg(cmd *cobra.Command, args []string, lookup func(src, dest string) (string, error)) (string, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	switch {
	case len(args) == 1 && from == "" && to == "":
		return args[0], nil
	case len(args) == 0 && from != "" && to != "":
		return lookup(from, to)
	}
	return "", fmt.Errorf("give either a condition or both --from and --to")
}

func errStateMissing(name string) error {
	return fmt.Errorf("%w: %q", domain.ErrStateNotFound, name)
}
