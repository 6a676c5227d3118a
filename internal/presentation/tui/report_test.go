package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestModelMarkdown(t *testing.T) {
	out := ModelMarkdown(&domain.Snapshot{
		Name:   "door",
		States: []string{"Closed", "Open"},
		Transitions: []domain.Transition{
			{Name: "t1", Condition: "push == 1 || force == 1", From: "Closed", To: "Open"},
			{Name: "t2", From: "Open", To: "Closed"},
		},
		Inputs: []domain.Input{{Name: "push", Value: "0"}},
	})

	assert.Contains(t, out, "# Model `door`")
	assert.Contains(t, out, "- Closed\n- Open\n")
	assert.Contains(t, out, "| t1 | Closed | Open | `push == 1 \\|\\| force == 1` |")
	assert.Contains(t, out, "| t2 | Open | Closed | _always_ |")
	assert.Contains(t, out, "| push | 0 |")
}

func TestModelMarkdown_Empty(t *testing.T) {
	out := ModelMarkdown(&domain.Snapshot{})
	assert.Contains(t, out, "# Model\n")
	assert.Contains(t, out, "## Transitions\n\n_none_")
}

func TestReportMarkdown(t *testing.T) {
	out := ReportMarkdown(analysis.Report{
		States:         3,
		TerminalStates: []string{"C"},
		RedundantPairs: [][2]string{{"A", "B"}},
		Start:          "A",
	})
	assert.Contains(t, out, "- **States:** 3")
	assert.Contains(t, out, "- **Strongly connected:** no")
	assert.Contains(t, out, "- **Terminal states:** C")
	assert.Contains(t, out, "- **Unreachable from A:** none")
	assert.Contains(t, out, "- A and B")
}

func TestPathMarkdown(t *testing.T) {
	assert.Equal(t, "# Trace\n\n1. A\n2. B\n", PathMarkdown("Trace", []string{"A", "B"}))
}

func TestPlainRendererPassesThrough(t *testing.T) {
	out, err := NewRenderer(true)("# Title")
	assert.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
