package main

import (
	"fmt"

	"github.com/aretw0/stm/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the model as a Mermaid flowchart",
	Long: `Prints the model as a Mermaid flowchart. Terminal states are drawn as
double circles. With --start the start state is drawn as a circle and the
states it cannot reach are greyed out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		ed, err := workspace().Open()
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if start != "" {
			if !ed.HasState(start) {
				return errStateMissing(start)
			}
			overlay = &graph.GraphOverlay{Start: start, Unreachable: ed.Analyze(start).Unreachable}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(ed.Snapshot(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("start", "", "Start state to highlight")
}
