// Package report provides output formatters for dial traces in JSON
// and human-readable text formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/spindle/internal/trace"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version string       `json:"version"`
	Trace   trace.Result `json:"trace"`
}

// WriteJSON writes a trace as formatted JSON to the writer.
func WriteJSON(w io.Writer, res trace.Result) error {
	if res.Steps == nil {
		res.Steps = []trace.Step{}
	}
	report := JSONReport{
		Version: "0.1.0",
		Trace:   res,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
