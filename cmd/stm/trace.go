package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/presentation/graph"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace START STEPS",
	Short: "Generate a coverage walk through the model",
	Long: `Walks STEPS transitions from START, always moving to the successor
visited least so far. Guards are ignored. With --mermaid the walk is drawn
over the model graph.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		asMermaid, _ := cmd.Flags().GetBool("mermaid")

		ed, err := workspace().Open()
		if err != nil {
			return err
		}
		trace, err := ed.Trace(args[0], steps)
		if err != nil && !(errors.Is(err, domain.ErrDeadEnd) && len(trace) > 0) {
			return err
		}
		if err != nil {
			logger.Warn("Trace stopped early", "error", err)
		}

		if asMermaid {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(ed.Snapshot(), &graph.GraphOverlay{
				Start:        args[0],
				VisitedNodes: trace,
				CurrentNode:  trace[len(trace)-1],
			}))
			return nil
		}
		return cli.Print(cmd.OutOrStdout(), tui.PathMarkdown("Trace", trace), plainOutput(cmd))
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Bool("mermaid", false, "Draw the trace as a Mermaid overlay")
}
