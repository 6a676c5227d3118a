package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stm/internal/presentation/graph"
	"github.com/aretw0/stm/internal/presentation/tui"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/registry"
	"github.com/spf13/cobra"
)

// exporters holds the formats understood by the export command.
var exporters = registry.NewRegistry()

func encoder(format file.Format) registry.Exporter {
	return func(w io.Writer, snap *domain.Snapshot) error {
		data, err := file.Encode(snap, format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the model for code generators",
	Long: `Writes the generator view of the model: every condition is translated to
the symbolic operator spelling (&&, ||, !). Formats: json, yaml, mermaid
and markdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		ed, err := workspace().Open()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := exporters.Export(format, &buf, ed.GeneratorSnapshot()); err != nil {
			return err
		}
		if output == "" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		logger.Info("Model exported", "format", format, "path", output)
		return nil
	},
}

func init() {
	exporters.Register("json", encoder(file.FormatJSON))
	exporters.Register("yaml", encoder(file.FormatYAML))
	exporters.Register("mermaid", func(w io.Writer, snap *domain.Snapshot) error {
		_, err := io.WriteString(w, graph.GenerateMermaid(snap, nil))
		return err
	})
	exporters.Register("markdown", func(w io.Writer, snap *domain.Snapshot) error {
		_, err := io.WriteString(w, tui.ModelMarkdown(snap))
		return err
	})

	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, mermaid or markdown")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}
