package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/parlint/parlint/internal/domain"
)

// Command runs an external linter that prints ESLint-compatible JSON.
type Command struct{}

func NewCommand() *Command { return &Command{} }

type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
	Output   *string         `json:"output,omitempty"`
}

type eslintMessage struct {
	RuleID    *string         `json:"ruleId"`
	Severity  int             `json:"severity"`
	Message   string          `json:"message"`
	Line      int             `json:"line"`
	Column    int             `json:"column"`
	EndLine   int             `json:"endLine"`
	EndColumn int             `json:"endColumn"`
	Fatal     bool            `json:"fatal"`
	Fix       json.RawMessage `json:"fix,omitempty"`
}

// Analyze runs `command args [fix_args] files...`. Exit status 0 and 1
// both mean the linter ran; anything else is a failure.
func (c *Command) Analyze(ctx context.Context, files []string, opts domain.AnalyzeOptions) ([]domain.FileResult, error) {
	if opts.Config == nil || opts.Config.Engine.Command == "" {
		return nil, errors.New("command engine: no command configured")
	}
	ec := opts.Config.Engine

	args := append([]string{}, ec.Args...)
	if opts.Fix {
		args = append(args, ec.FixArgs...)
	}
	args = append(args, files...)

	dir := workDir(opts.Root)
	cmd := exec.CommandContext(ctx, ec.Command, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, fmt.Errorf("running %s: %w%s", ec.Command, err, stderrSuffix(stderr.String()))
		}
	}

	var report []eslintFile
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		return nil, fmt.Errorf("parsing %s output: %w%s", ec.Command, err, stderrSuffix(stderr.String()))
	}

	return lo.Map(report, func(f eslintFile, _ int) domain.FileResult {
		return convertFile(f, dir, opts.Fix)
	}), nil
}

// workDir is the directory the linter runs in: root itself, or its parent
// when a single file is being linted.
func workDir(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

func convertFile(f eslintFile, root string, fix bool) domain.FileResult {
	path := f.FilePath
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}

	diags := lo.Map(f.Messages, func(m eslintMessage, _ int) domain.Diagnostic {
		d := domain.Diagnostic{
			RuleID:    lo.FromPtrOr(m.RuleID, ""),
			Severity:  domain.SeverityWarning,
			Message:   m.Message,
			Line:      m.Line,
			Column:    m.Column,
			EndLine:   m.EndLine,
			EndColumn: m.EndColumn,
			Fatal:     m.Fatal,
			Fixable:   len(m.Fix) > 0 && string(m.Fix) != "null",
		}
		if m.Severity >= 2 || m.Fatal {
			d.Severity = domain.SeverityError
		}
		if d.RuleID == "" && m.Fatal {
			d.RuleID = RuleSyntax
		}
		return d
	})

	result := domain.NewFileResult(filepath.Clean(path), diags)
	result.Fixed = fix && f.Output != nil
	return result
}

func stderrSuffix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return ": " + s
}
