package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/condition"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the model for consistency",
	Long: `Loads the model and reports entries that fail to load, guards that do
not parse and any disagreement between the transition table and the
adjacency index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Model is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate() error {
	snap, err := workspace().Source.Read()
	if err != nil {
		return err
	}
	// Load errors are collected, not fatal: report them with the rest.
	ed, loadErr := stm.FromSnapshot(snap, stm.WithLogger(logger))

	errs := []error{loadErr}
	for _, t := range ed.Transitions() {
		if strings.TrimSpace(t.Condition) == "" {
			continue
		}
		if err := condition.CheckSpelling(t.Condition); err != nil {
			logger.Warn("Mixed operator spelling", "transition", t.Name, "error", err)
		}
		if _, err := condition.Parse(t.Condition); err != nil {
			errs = append(errs, fmt.Errorf("transition %s (%s -> %s): %w", t.Name, t.From, t.To, err))
		}
	}
	errs = append(errs, ed.CheckIndex())
	return errors.Join(errs...)
}
