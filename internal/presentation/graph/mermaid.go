package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stm/pkg/domain"
)

// GraphOverlay contains analysis or simulation data to visualize on the graph.
type GraphOverlay struct {
	// Start is drawn as a circle.
	Start        string
	VisitedNodes []string
	CurrentNode  string
	Unreachable  []string
}

// GenerateMermaid produces a Mermaid flowchart from a model snapshot.
// It applies semantic styling:
// - Start: ((Circle))
// - Terminal (no outgoing transitions): (((Double circle)))
// - Default: [Rectangle]
// Conditions label the edges in word-spelling, which needs no escaping.
func GenerateMermaid(snap *domain.Snapshot, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if snap == nil {
		return sb.String()
	}

	hasOutgoing := make(map[string]bool)
	for _, t := range snap.Transitions {
		hasOutgoing[t.From] = true
	}
	start := ""
	if overlay != nil {
		start = overlay.Start
	}

	for _, state := range snap.States {
		safeID := sanitizeMermaidID(state)

		opener, closer := "[", "]"
		switch {
		case state == start:
			opener, closer = "((", "))"
		case !hasOutgoing[state]:
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(state), closer)
	}

	for _, t := range snap.Transitions {
		arrow := "-->"
		if label := edgeLabel(t); label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(t.From), arrow, sanitizeMermaidID(t.To))
	}

	if overlay != nil {
		writeOverlay(&sb, overlay)
	}
	return sb.String()
}

func edgeLabel(t domain.Transition) string {
	cond := strings.TrimSpace(t.Condition)
	switch {
	case t.Name != "" && cond != "":
		return escapeLabel(t.Name + ": " + cond)
	case cond != "":
		return escapeLabel(cond)
	}
	return escapeLabel(t.Name)
}

func writeOverlay(sb *strings.Builder, overlay *GraphOverlay) {
	if len(overlay.VisitedNodes) == 0 && overlay.CurrentNode == "" && len(overlay.Unreachable) == 0 {
		return
	}
	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for contrast on light fills regardless of theme.
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString("    classDef unreachable fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 4,color:#000;\n")

	seen := make(map[string]bool)
	for _, id := range overlay.VisitedNodes {
		safeID := sanitizeMermaidID(id)
		if !seen[safeID] && safeID != "" {
			seen[safeID] = true
			fmt.Fprintf(sb, "    class %s visited;\n", safeID)
		}
	}
	for _, id := range overlay.Unreachable {
		fmt.Fprintf(sb, "    class %s unreachable;\n", sanitizeMermaidID(id))
	}
	if overlay.CurrentNode != "" {
		fmt.Fprintf(sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "'", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
