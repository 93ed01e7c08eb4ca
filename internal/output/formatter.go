package output

import (
	"fmt"
	"io"
	"strings"
)

// Compile-time interface conformance checks.
var (
	_ PlanWriter = (*ConsolePlanWriter)(nil)
	_ PlanWriter = (*JSONPlanWriter)(nil)
	_ PlanWriter = (*MarkdownPlanWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
)

// ParseFormat parses the --format flag value. Empty means console.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console", "text":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format: %s (expected console, json or markdown)", s)
	}
}

// PlanEntry is one skip instruction in printable form.
type PlanEntry struct {
	ID       string
	Title    string
	BaseSHA  string
	MergeSHA string
	// Command is the full argv, starting with the tool name.
	Command []string
}

// CommandLine returns the command joined with spaces.
func (e PlanEntry) CommandLine() string {
	return strings.Join(e.Command, " ")
}

// Plan holds the skip instructions of one run.
type Plan struct {
	Repository string
	Good       string
	Bad        string
	Entries    []PlanEntry
}

// PlanWriter writes a dry-run plan.
type PlanWriter interface {
	Write(out io.Writer, plan *Plan) error
}

// NewPlanWriter creates a plan writer for the specified format. useColor
// only affects the console format.
func NewPlanWriter(format OutputFormat, useColor bool) PlanWriter {
	switch format {
	case FormatJSON:
		return &JSONPlanWriter{}
	case FormatMarkdown:
		return &MarkdownPlanWriter{}
	default:
		return &ConsolePlanWriter{Color: useColor}
	}
}
