package application

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/panics"

	"github.com/parlint/parlint/internal/domain"
)

// runWorker analyzes one chunk. It always returns an outcome: a panic or an
// error inside the engine becomes a failed outcome, and a response that does
// not cover the chunk exactly is discarded as a whole.
func runWorker(
	ctx context.Context,
	id int,
	chunk []string,
	analyzer domain.Analyzer,
	opts domain.AnalyzeOptions,
) domain.WorkerOutcome {
	start := time.Now()
	outcome := domain.WorkerOutcome{WorkerID: id, Files: chunk}

	var (
		results []domain.FileResult
		err     error
		pc      panics.Catcher
	)
	pc.Try(func() {
		results, err = analyzer.Analyze(ctx, chunk, opts)
	})
	outcome.Duration = time.Since(start)

	if rec := pc.Recovered(); rec != nil {
		outcome.Err = fmt.Errorf("%w: %v", domain.ErrWorkerPanic, rec.Value)
		return outcome
	}
	if err != nil {
		outcome.Err = fmt.Errorf("analyzing %d files: %w", len(chunk), err)
		return outcome
	}
	if err := checkCoverage(chunk, results); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Results = results
	return outcome
}

// checkCoverage enforces one result per chunk file and nothing else.
func checkCoverage(chunk []string, results []domain.FileResult) error {
	want := lo.Keyify(chunk)
	seen := make(map[string]bool, len(results))

	for _, r := range results {
		if _, ok := want[r.Path]; !ok {
			return fmt.Errorf("%w: unexpected file %s", domain.ErrIncompleteResults, r.Path)
		}
		if seen[r.Path] {
			return fmt.Errorf("%w: duplicate result for %s", domain.ErrIncompleteResults, r.Path)
		}
		seen[r.Path] = true
	}

	missing := lo.Filter(chunk, func(f string, _ int) bool { return !seen[f] })
	if len(missing) > 0 {
		return fmt.Errorf("%w: %d of %d files missing, first %s",
			domain.ErrIncompleteResults, len(missing), len(chunk), missing[0])
	}
	return nil
}
