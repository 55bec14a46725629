package tui

import (
	"encoding/json"
	"io"

	"github.com/parlint/parlint/internal/domain"
	"github.com/samber/lo"
)

// JSONReporter implements domain.Reporter for JSON mode. Nothing is
// streamed; WriteJSON prints the whole summary once the run is over.
type JSONReporter struct{}

func (JSONReporter) Emit(domain.FileResult, bool) {}

// WriteJSON writes the run summary as indented JSON. Quiet drops
// warning-only results and warning diagnostics.
func WriteJSON(w io.Writer, s *domain.RunSummary, quiet bool) error {
	out := *s
	if quiet {
		out.Results = quietResults(s.Results)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func quietResults(results []domain.FileResult) []domain.FileResult {
	kept := make([]domain.FileResult, 0, len(results))
	for _, r := range results {
		if r.ErrorCount == 0 {
			continue
		}
		r.Diagnostics = lo.Filter(r.Diagnostics, func(d domain.Diagnostic, _ int) bool {
			return d.Severity == domain.SeverityError
		})
		kept = append(kept, r)
	}
	return kept
}
