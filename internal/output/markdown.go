package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownPlanWriter writes a plan as a Markdown table.
type MarkdownPlanWriter struct{}

// Write outputs the plan as Markdown.
func (w *MarkdownPlanWriter) Write(out io.Writer, plan *Plan) error {
	var b strings.Builder

	b.WriteString("# Bisect Skip Plan\n\n")
	fmt.Fprintf(&b, "**Repository:** %s\n\n", plan.Repository)
	fmt.Fprintf(&b, "**Range:** `%s` (good) to `%s` (bad)\n\n", plan.Good, plan.Bad)

	if len(plan.Entries) == 0 {
		b.WriteString("No merged pull requests fall inside the range.\n")
		_, err := io.WriteString(out, b.String())
		return err
	}

	fmt.Fprintf(&b, "**Pull Requests:** %d\n\n", len(plan.Entries))
	b.WriteString("| # | PR | Title | Command |\n")
	b.WriteString("|---|----|-------|---------|\n")
	for i, e := range plan.Entries {
		fmt.Fprintf(&b, "| %d | #%s | %s | `%s` |\n",
			i+1, e.ID, escapeTableCell(truncateMessage(e.Title, 60)), e.CommandLine())
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
