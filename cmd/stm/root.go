package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stm/internal/cli"
	"github.com/aretw0/stm/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// cfg holds stm.yaml merged with the command line.
	cfg    = cli.DefaultConfig()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "stm",
	Short: "stm edits and analyzes finite state machine models",
	Long: `stm keeps a state machine as states, guarded transitions and integer inputs.
It evaluates guards, synthesizes inputs that satisfy them, finds terminal,
unreachable and redundant states and generates coverage traces.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().String("config", cli.DefaultConfigPath, "Project configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("plain", false, "Print plain text instead of rendered markdown")
}

// loadSettings reads the config file and lets flags override it.
func loadSettings(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	loaded, err := cli.LoadConfig(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	debug, _ := flags.GetBool("debug")

	logger, err = cli.NewLogger(cfg.Log.Level, debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Debug("Settings loaded", "config", path, "model", cfg.Model)
	return nil
}

func plainOutput(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	return plain
}

func workspace() *cli.Workspace {
	return cli.NewWorkspace(cfg.Model, logger)
}
