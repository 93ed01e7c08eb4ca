package output

import (
	"encoding/json"
	"io"
)

// JSONPlanWriter writes a plan as JSON.
type JSONPlanWriter struct{}

// JSONPlan is the JSON output structure for a plan.
type JSONPlan struct {
	Repository   string          `json:"repository"`
	Good         string          `json:"good"`
	Bad          string          `json:"bad"`
	Total        int             `json:"total"`
	PullRequests []JSONPlanEntry `json:"pullRequests"`
}

// JSONPlanEntry is the JSON output structure for a single skip instruction.
type JSONPlanEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	BaseSHA  string   `json:"baseSha"`
	MergeSHA string   `json:"mergeSha"`
	Command  string   `json:"command"`
	Args     []string `json:"args"`
}

// Write outputs the plan as indented JSON.
func (w *JSONPlanWriter) Write(out io.Writer, plan *Plan) error {
	entries := make([]JSONPlanEntry, len(plan.Entries))
	for i, e := range plan.Entries {
		entries[i] = JSONPlanEntry{
			ID:       e.ID,
			Title:    e.Title,
			BaseSHA:  e.BaseSHA,
			MergeSHA: e.MergeSHA,
			Command:  e.CommandLine(),
			Args:     e.Command,
		}
	}

	report := JSONPlan{
		Repository:   plan.Repository,
		Good:         plan.Good,
		Bad:          plan.Bad,
		Total:        len(entries),
		PullRequests: entries,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
