package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Severity classifies a single diagnostic. Only SeverityError affects the
// exit status of a run.
type Severity string

const (
	SeverityPass    Severity = "pass"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity accepts the config spellings of a severity.
// "off" maps to SeverityPass, which disables a rule.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "off", "pass", "0":
		return SeverityPass, nil
	case "warn", "warning", "1":
		return SeverityWarning, nil
	case "error", "err", "2":
		return SeverityError, nil
	default:
		return "", fmt.Errorf("unknown severity %q (valid: off, warn, error)", raw)
	}
}

// Diagnostic is one finding for one file. Diagnostics are produced by the
// analysis engine only.
type Diagnostic struct {
	RuleID    string   `json:"rule_id"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"end_line,omitempty"`
	EndColumn int      `json:"end_column,omitempty"`
	Fatal     bool     `json:"fatal,omitempty"`
	Fixable   bool     `json:"fixable,omitempty"`
}

// FileResult holds every diagnostic for a single file plus derived counts.
// A file path identifies at most one FileResult per run.
type FileResult struct {
	Path         string       `json:"path"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	FixableCount int          `json:"fixable_count"`
	Fixed        bool         `json:"fixed,omitempty"`
}

// NewFileResult builds a FileResult and derives its counts from diags.
func NewFileResult(path string, diags []Diagnostic) FileResult {
	if diags == nil {
		diags = []Diagnostic{}
	}
	return FileResult{
		Path:         path,
		Diagnostics:  diags,
		ErrorCount:   lo.CountBy(diags, func(d Diagnostic) bool { return d.Severity == SeverityError }),
		WarningCount: lo.CountBy(diags, func(d Diagnostic) bool { return d.Severity == SeverityWarning }),
		FixableCount: lo.CountBy(diags, func(d Diagnostic) bool { return d.Fixable }),
	}
}

// Passed reports whether the file has no errors and no warnings.
func (r FileResult) Passed() bool {
	return r.ErrorCount == 0 && r.WarningCount == 0
}

// WorkerOutcome is the terminal report of one worker: either Results for
// its whole chunk or Err.
type WorkerOutcome struct {
	WorkerID int
	Files    []string
	Results  []FileResult
	Err      error
	Duration time.Duration
}

func (o WorkerOutcome) Failed() bool { return o.Err != nil }

// WorkerFailure records a failed chunk in the run summary so missing
// coverage is visible in reports.
type WorkerFailure struct {
	WorkerID  int    `json:"worker_id"`
	FileCount int    `json:"file_count"`
	FirstFile string `json:"first_file,omitempty"`
	Error     string `json:"error"`
}

// Totals are aggregate counts over a set of file results.
type Totals struct {
	Files           int `json:"files"`
	FilesWithIssues int `json:"files_with_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Fixable         int `json:"fixable"`
	Fixed           int `json:"fixed"`
}

// Problems is the number of diagnostics that count as problems.
func (t Totals) Problems() int { return t.Errors + t.Warnings }

// Exit codes of a run.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// RunSummary is the final outcome of a run.
type RunSummary struct {
	Root          string          `json:"root"`
	CommitHash    string          `json:"commit_hash,omitempty"`
	ConfigPath    string          `json:"config_path"`
	Targets       int             `json:"targets"`
	Workers       int             `json:"workers"`
	Results       []FileResult    `json:"results"`
	Totals        Totals          `json:"totals"`
	FailedWorkers []WorkerFailure `json:"failed_workers,omitempty"`
	NoFiles       bool            `json:"no_files,omitempty"`
	Incomplete    bool            `json:"incomplete,omitempty"`
	ExitCode      int             `json:"exit_code"`
	Duration      time.Duration   `json:"duration_ns"`
	StartedAt     time.Time       `json:"started_at"`
}

// HasWorkerFailures reports whether any chunk failed to produce results.
func (s *RunSummary) HasWorkerFailures() bool {
	return len(s.FailedWorkers) > 0
}

// RuleInfo describes an analysis rule and its defaults.
type RuleInfo struct {
	Name     string   `json:"name"`
	Doc      string   `json:"doc"`
	Severity Severity `json:"severity"`
	Max      int      `json:"max,omitempty"`
	Fixable  bool     `json:"fixable,omitempty"`
}
