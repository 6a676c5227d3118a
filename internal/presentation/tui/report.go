package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/domain"
)

// ModelMarkdown lays out a model as markdown tables.
func ModelMarkdown(snap *domain.Snapshot) string {
	var sb strings.Builder
	title := "Model"
	if snap.Name != "" {
		title = "Model `" + snap.Name + "`"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	sb.WriteString("## States\n\n")
	if len(snap.States) == 0 {
		sb.WriteString("_none_\n\n")
	}
	for _, s := range snap.States {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	if len(snap.States) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## Transitions\n\n")
	if len(snap.Transitions) == 0 {
		sb.WriteString("_none_\n\n")
	} else {
		sb.WriteString("| Name | From | To | Condition |\n|---|---|---|---|\n")
		for _, t := range snap.Transitions {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", t.Name, t.From, t.To, cell(t.Condition))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Inputs\n\n")
	if len(snap.Inputs) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Name | Value |\n|---|---|\n")
		for _, in := range snap.Inputs {
			fmt.Fprintf(&sb, "| %s | %s |\n", in.Name, in.Value)
		}
	}
	return sb.String()
}

// ReportMarkdown summarizes an analysis report.
func ReportMarkdown(rep analysis.Report) string {
	var sb strings.Builder
	sb.WriteString("# Analysis\n\n")
	fmt.Fprintf(&sb, "- **States:** %d\n", rep.States)
	fmt.Fprintf(&sb, "- **Transitions:** %d\n", rep.Transitions)
	fmt.Fprintf(&sb, "- **Inputs:** %d\n", rep.Inputs)
	fmt.Fprintf(&sb, "- **Strongly connected:** %s\n", yesNo(rep.StronglyConnected))
	fmt.Fprintf(&sb, "- **Terminal states:** %s\n", list(rep.TerminalStates))

	if rep.Start != "" {
		fmt.Fprintf(&sb, "- **Unreachable from %s:** %s\n", rep.Start, list(rep.Unreachable))
	}

	sb.WriteString("\n## Redundant pairs\n\n")
	if len(rep.RedundantPairs) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, p := range rep.RedundantPairs {
		fmt.Fprintf(&sb, "- %s and %s\n", p[0], p[1])
	}
	return sb.String()
}

// PathMarkdown renders a walk as a numbered list.
func PathMarkdown(title string, path []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	for i, s := range path {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "_always_"
	}
	// Pipes would split the table cell.
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}

func list(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
