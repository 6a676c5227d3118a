package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stm version %s\n", strings.TrimSpace(stm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
