package main

import (
	"fmt"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/synth"
	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth [CONDITION]",
	Short: "Set inputs so that a condition holds",
	Long: `Writes input values that satisfy CONDITION, or the guard of the
transition named by --from and --to, and saves the model. With --dry-run
the assignments are printed but not saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		var plan []synth.Assignment

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		byTransition := len(args) == 0 && from != "" && to != ""
		if !byTransition && (len(args) != 1 || from != "" || to != "") {
			return fmt.Errorf("give either a condition or both --from and --to")
		}

		apply := func(ed *stm.Editor) error {
			var err error
			if byTransition {
				plan, err = ed.SynthesizeTransition(from, to)
			} else {
				plan, err = ed.Synthesize(args[0])
			}
			return err
		}

		ws := workspace()
		if dryRun {
			ed, err := ws.Open()
			if err != nil {
				return err
			}
			if err := apply(ed); err != nil {
				return err
			}
		} else if _, err := ws.Edit(apply); err != nil {
			return err
		}

		for _, a := range plan {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", a.Input, a.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().String("from", "", "Source state of the transition to satisfy")
	synthCmd.Flags().String("to", "", "Destination state of the transition to satisfy")
	synthCmd.Flags().Bool("dry-run", false, "Print the assignments without saving")
}
