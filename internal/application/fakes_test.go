package application_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/parlint/parlint/internal/domain"
)

type fakeLocator struct {
	handle *domain.ConfigHandle
	err    error
	loaded string
}

func (f *fakeLocator) Locate(string) (*domain.ConfigHandle, error) {
	return f.handle, f.err
}

func (f *fakeLocator) Load(path string) (*domain.ConfigHandle, error) {
	f.loaded = path
	return f.handle, f.err
}

func defaultLocator() *fakeLocator {
	return &fakeLocator{handle: &domain.ConfigHandle{
		Path:   "/proj/.parlint.yaml",
		Dir:    "/proj",
		Config: domain.DefaultConfig(),
	}}
}

type fakeIgnores struct {
	patterns []string
	err      error
}

func (f fakeIgnores) ResolveIgnore(domain.RunOptions, *domain.ConfigHandle) ([]string, error) {
	return f.patterns, f.err
}

type fakeTargets struct {
	files []string
	err   error

	mu      sync.Mutex
	gotBase string
	gotExts []string
	gotIgn  []string
}

func (f *fakeTargets) ResolveTargets(_, base string, exts, ignore []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotBase = base
	f.gotExts = exts
	f.gotIgn = ignore
	return f.files, f.err
}

// scriptedAnalyzer answers from a fixed table of per-file diagnostics.
// Chunks containing a file listed in failOn fail; panicOn panics.
type scriptedAnalyzer struct {
	diags   map[string][]domain.Diagnostic
	failOn  string
	panicOn string

	mu     sync.Mutex
	chunks [][]string
	roots  []string
}

func (a *scriptedAnalyzer) Analyze(_ context.Context, files []string, opts domain.AnalyzeOptions) ([]domain.FileResult, error) {
	a.mu.Lock()
	a.chunks = append(a.chunks, files)
	a.roots = append(a.roots, opts.Root)
	a.mu.Unlock()

	out := make([]domain.FileResult, 0, len(files))
	for _, f := range files {
		if f == a.failOn {
			return nil, errors.New("engine misconfigured")
		}
		if f == a.panicOn {
			panic("rule exploded")
		}
		out = append(out, domain.NewFileResult(f, a.diags[f]))
	}
	return out, nil
}

func (a *scriptedAnalyzer) seenChunks() [][]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([][]string(nil), a.chunks...)
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

type emitted struct {
	path  string
	quiet bool
}

type recordingReporter struct {
	mu    sync.Mutex
	calls []emitted
}

func (r *recordingReporter) Emit(result domain.FileResult, quiet bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, emitted{path: result.Path, quiet: quiet})
}

func (r *recordingReporter) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.path)
	}
	sort.Strings(out)
	return out
}

func errorDiag() []domain.Diagnostic {
	return []domain.Diagnostic{{RuleID: "syntax", Severity: domain.SeverityError, Message: "unexpected token", Line: 1, Column: 5}}
}

func warningDiag() []domain.Diagnostic {
	return []domain.Diagnostic{{RuleID: "no_todo", Severity: domain.SeverityWarning, Message: "TODO comment", Line: 2, Column: 1}}
}

type fakeGit struct {
	hash   string
	err    error
	gotDir string
}

func (f *fakeGit) CommitHash(dir string) (string, error) {
	f.gotDir = dir
	return f.hash, f.err
}
