package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"github.com/parlint/parlint/internal/domain"
)

// LintService orchestrates a parallel run:
// locate config → resolve ignores → resolve targets → partition → one worker per chunk → finalize.
type LintService struct {
	locator  domain.ConfigLocator
	ignores  domain.IgnoreResolver
	targets  domain.TargetResolver
	analyzer domain.Analyzer
	reporter domain.Reporter
	git      domain.GitInfo
	logger   *log.Logger

	// cpus reports the number of available processing units.
	cpus func() int
}

func NewLintService(
	locator domain.ConfigLocator,
	ignores domain.IgnoreResolver,
	targets domain.TargetResolver,
	analyzer domain.Analyzer,
	reporter domain.Reporter,
	logger *log.Logger,
) *LintService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LintService{
		locator:  locator,
		ignores:  ignores,
		targets:  targets,
		analyzer: analyzer,
		reporter: reporter,
		logger:   logger,
		cpus:     runtime.NumCPU,
	}
}

// WithGitInfo makes RunAll stamp summaries with the commit of the lint
// root. A root outside any repository is left unstamped.
func (s *LintService) WithGitInfo(git domain.GitInfo) *LintService {
	s.git = git
	return s
}

// RunAll lints every target under root and returns the run summary.
//
// A missing or invalid configuration and an unresolvable target set are
// fatal and returned before any worker starts. Worker failures are logged
// and recorded in the summary. If ctx is cancelled while workers are
// running, the summary is finalized from what was aggregated, marked
// incomplete, and returned together with ctx.Err().
func (s *LintService) RunAll(ctx context.Context, root string, opts domain.RunOptions) (*domain.RunSummary, error) {
	start := time.Now()
	phases := domain.NewPhaseTracker()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		s.enter(phases, domain.PhaseTerminated)
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	summary := &domain.RunSummary{Root: absRoot, StartedAt: start}

	// 1. Configuration
	handle, err := s.resolveConfig(absRoot, opts)
	if err != nil {
		s.enter(phases, domain.PhaseTerminated)
		return nil, err
	}
	summary.ConfigPath = handle.Path
	s.enter(phases, domain.PhaseConfigResolved)

	// 2. Ignore patterns (recoverable)
	patterns, err := s.ignores.ResolveIgnore(opts, handle)
	if err != nil {
		s.logger.Warn("ignore patterns unavailable, continuing without them", "err", err)
		patterns = nil
	}

	// 3. Targets
	files, err := s.targets.ResolveTargets(absRoot, handle.Dir, opts.EffectiveExtensions(handle.Config), patterns)
	if err != nil {
		s.enter(phases, domain.PhaseTerminated)
		return nil, fmt.Errorf("resolving targets: %w", err)
	}
	summary.Targets = len(files)
	s.enter(phases, domain.PhaseTargetsResolved)

	// 4. Partition
	chunks := domain.Partition(files, opts.EffectiveWorkers(handle.Config, s.cpus()))
	summary.Workers = len(chunks)
	s.enter(phases, domain.PhasePartitioned)
	s.logger.Debug("partitioned targets", "files", len(files), "chunks", len(chunks))

	// 5-7. Workers
	agg := domain.NewAggregator()
	aopts := domain.AnalyzeOptions{Fix: opts.Fix, Root: rootDir(absRoot), Config: &handle.Config}
	runErr := s.runWorkers(ctx, phases, chunks, aopts, opts.Quiet, agg, summary)

	// 8. Finalize
	s.enter(phases, domain.PhaseFinalizing)
	s.finalize(summary, agg, opts.FailsOnWorkerError(handle.Config))
	s.stampCommit(summary, aopts.Root)
	summary.Duration = time.Since(start)
	s.enter(phases, domain.PhaseTerminated)

	if runErr != nil {
		return summary, runErr
	}
	return summary, nil
}

func (s *LintService) stampCommit(summary *domain.RunSummary, dir string) {
	if s.git == nil {
		return
	}
	hash, err := s.git.CommitHash(dir)
	if err != nil {
		s.logger.Debug("no commit stamp", "err", err)
		return
	}
	summary.CommitHash = hash
}

// rootDir is the directory engines run in: the root itself, or its parent
// when the root is a single file.
func rootDir(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

func (s *LintService) resolveConfig(root string, opts domain.RunOptions) (*domain.ConfigHandle, error) {
	var (
		handle *domain.ConfigHandle
		err    error
	)
	if opts.ConfigPath != "" {
		handle, err = s.locator.Load(opts.ConfigPath)
	} else {
		handle, err = s.locator.Locate(root)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving config: %w", err)
	}
	if err := handle.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", handle.Path, err)
	}
	return handle, nil
}

// runWorkers spawns one worker per chunk and drains their outcomes on the
// calling goroutine until every worker has reported or ctx is done.
func (s *LintService) runWorkers(
	ctx context.Context,
	phases *domain.PhaseTracker,
	chunks [][]string,
	aopts domain.AnalyzeOptions,
	quiet bool,
	agg *domain.Aggregator,
	summary *domain.RunSummary,
) error {
	s.enter(phases, domain.PhaseRunning)
	if len(chunks) == 0 {
		return nil
	}

	// Buffered so a worker never blocks on send after the coordinator stops listening.
	outcomes := make(chan domain.WorkerOutcome, len(chunks))

	var wg conc.WaitGroup
	for i, chunk := range chunks {
		id := i + 1
		wg.Go(func() {
			outcomes <- runWorker(ctx, id, chunk, s.analyzer, aopts)
		})
	}

	for pending := len(chunks); pending > 0; {
		select {
		case outcome := <-outcomes:
			pending--
			s.handleOutcome(outcome, quiet, agg, summary)
			s.enter(phases, domain.PhaseRunning)
			s.logger.Debug("worker done", "worker", outcome.WorkerID, "pending", pending, "took", outcome.Duration)
		case <-ctx.Done():
			summary.Incomplete = true
			s.logger.Warn("run interrupted, abandoning workers", "pending", pending)
			return ctx.Err()
		}
	}

	wg.Wait()
	return nil
}

func (s *LintService) handleOutcome(
	outcome domain.WorkerOutcome,
	quiet bool,
	agg *domain.Aggregator,
	summary *domain.RunSummary,
) {
	if outcome.Failed() {
		failure := domain.WorkerFailure{
			WorkerID:  outcome.WorkerID,
			FileCount: len(outcome.Files),
			Error:     outcome.Err.Error(),
		}
		if len(outcome.Files) > 0 {
			failure.FirstFile = outcome.Files[0]
		}
		s.logger.Warn("worker failed",
			"worker", failure.WorkerID,
			"files", failure.FileCount,
			"first", failure.FirstFile,
			"err", outcome.Err,
		)
		summary.FailedWorkers = append(summary.FailedWorkers, failure)
		return
	}

	for _, r := range outcome.Results {
		s.reporter.Emit(r, quiet)
	}
	agg.Append(outcome.Results)
}

func (s *LintService) finalize(summary *domain.RunSummary, agg *domain.Aggregator, failOnWorkerError bool) {
	summary.Results = agg.Results()
	summary.Totals = agg.Totals()

	switch {
	case summary.Targets == 0:
		summary.NoFiles = true
		summary.ExitCode = domain.ExitOK
	case agg.HasAnyError():
		summary.ExitCode = domain.ExitFailed
	case summary.Incomplete:
		summary.ExitCode = domain.ExitFailed
	case failOnWorkerError && summary.HasWorkerFailures():
		summary.ExitCode = domain.ExitFailed
	default:
		summary.ExitCode = domain.ExitOK
	}
}

// enter advances the phase tracker. A rejected transition is a programming
// error in the orchestrator, so it panics.
func (s *LintService) enter(phases *domain.PhaseTracker, to domain.Phase) {
	if err := phases.Advance(to); err != nil {
		panic(err)
	}
	s.logger.Debug("phase", "state", to)
}
