package main

import (
	"context"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze the model whenever its file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		plain := plainOutput(cmd)
		out := cmd.OutOrStdout()

		if !plain {
			tui.PrintBanner(out)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunWatch(sigCtx, cli.WatchOptions{
			Path:   cfg.Model,
			Out:    out,
			Logger: logger,
			Report: func(ed *stm.Editor) error {
				if start != "" && !ed.HasState(start) {
					logger.Warn("Start state missing, skipping reachability", "start", start)
					start = ""
				}
				return cli.Print(out, tui.ReportMarkdown(ed.Analyze(start)), plain)
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("start", "", "Start state for the reachability check")
}
