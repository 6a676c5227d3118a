package main

import (
	"fmt"

	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the states, transitions and inputs of the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := workspace().Open()
		if err != nil {
			return err
		}
		if plainOutput(cmd) {
			fmt.Fprintln(cmd.OutOrStdout(), ed.String())
			return nil
		}
		return cli.Print(cmd.OutOrStdout(), tui.ModelMarkdown(ed.Snapshot()), false)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
