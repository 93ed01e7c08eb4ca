package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ConsolePlanWriter writes a plan as a shell-style listing: a comment line
// naming the pull request, then the command. The output can be pasted into a
// shell as is.
type ConsolePlanWriter struct {
	Color bool
}

// Write outputs every entry of the plan.
func (w *ConsolePlanWriter) Write(out io.Writer, plan *Plan) error {
	for _, e := range plan.Entries {
		if err := w.WriteHeader(out, e); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, e.CommandLine()); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeader writes the `# Pull request #<id>: "<title>"` line of e.
func (w *ConsolePlanWriter) WriteHeader(out io.Writer, e PlanEntry) error {
	c := color.New(color.FgYellow)
	if w.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	_, err := c.Fprintf(out, "# Pull request #%s: %q\n", e.ID, e.Title)
	return err
}
