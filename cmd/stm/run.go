package main

import (
	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run START",
	Short: "Simulate the machine under the current inputs",
	Long: `Starting at START, repeatedly fires the first transition whose guard
holds for the current input values, until none does or --max-steps is hit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		ed, err := workspace().Open()
		if err != nil {
			return err
		}
		path, err := ed.Run(args[0], maxSteps)
		if err != nil {
			return err
		}
		return cli.Print(cmd.OutOrStdout(), tui.PathMarkdown("Run", path), plainOutput(cmd))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("max-steps", 100, "Upper bound on transitions taken")
}
