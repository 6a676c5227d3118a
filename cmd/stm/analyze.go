package main

import (
	"encoding/json"

	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report terminal, unreachable and redundant states",
	Long: `Reports the terminal states, whether every state reaches every other,
the pairs of states with identical successor sets and, with --start,
the states unreachable from the start state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		asJSON, _ := cmd.Flags().GetBool("json")

		ed, err := workspace().Open()
		if err != nil {
			return err
		}
		if start != "" && !ed.HasState(start) {
			return errStateMissing(start)
		}
		rep := ed.Analyze(start)
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		return cli.Print(cmd.OutOrStdout(), tui.ReportMarkdown(rep), plainOutput(cmd))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("start", "", "Start state for the reachability check")
	analyzeCmd.Flags().Bool("json", false, "Print the report as JSON")
}
