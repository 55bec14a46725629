package domain

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Aggregator accumulates file results from all workers. Appends are
// serialized; results are never deduplicated because partitioning already
// guarantees one result per file.
type Aggregator struct {
	mu      sync.Mutex
	results []FileResult
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append adds one worker's complete batch.
func (a *Aggregator) Append(results []FileResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, results...)
}

// HasAnyError reports whether at least one result has an error.
func (a *Aggregator) HasAnyError() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lo.SomeBy(a.results, func(r FileResult) bool { return r.ErrorCount > 0 })
}

// IsEmpty reports whether no results were appended.
func (a *Aggregator) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results) == 0
}

// Results returns a copy of the collected results ordered by path.
func (a *Aggregator) Results() []FileResult {
	a.mu.Lock()
	out := make([]FileResult, len(a.results))
	copy(out, a.results)
	a.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Totals sums the collected results.
func (a *Aggregator) Totals() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Totals{
		Files:           len(a.results),
		FilesWithIssues: lo.CountBy(a.results, func(r FileResult) bool { return !r.Passed() }),
		Errors:          lo.SumBy(a.results, func(r FileResult) int { return r.ErrorCount }),
		Warnings:        lo.SumBy(a.results, func(r FileResult) int { return r.WarningCount }),
		Fixable:         lo.SumBy(a.results, func(r FileResult) int { return r.FixableCount }),
		Fixed:           lo.CountBy(a.results, func(r FileResult) bool { return r.Fixed }),
	}
}
