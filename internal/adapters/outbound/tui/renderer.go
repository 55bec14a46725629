package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/parlint/parlint/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Underline(true).Foreground(fg)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	accentStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

// LineReporter implements domain.Reporter. Pass lines go to out, files with
// problems go to errOut as a header followed by one line per diagnostic:
//
//	line:column severity message ruleId
//
// It is driven from a single goroutine.
type LineReporter struct {
	out    io.Writer
	errOut io.Writer
	root   string
}

// NewLineReporter creates a LineReporter. Paths under root are shown
// relative to it.
func NewLineReporter(out, errOut io.Writer, root string) *LineReporter {
	return &LineReporter{out: out, errOut: errOut, root: root}
}

func (r *LineReporter) Emit(result domain.FileResult, quiet bool) {
	if quiet && result.ErrorCount == 0 {
		return
	}
	path := displayPath(r.root, result.Path)

	if result.Passed() {
		fmt.Fprintf(r.out, "%s %s\n", passStyle.Render("✓"), path)
		return
	}

	var b strings.Builder
	b.WriteString(fileStyle.Render(path) + "\n")
	for _, d := range result.Diagnostics {
		if quiet && d.Severity != domain.SeverityError {
			continue
		}
		b.WriteString(FormatDiagnostic(d) + "\n")
	}
	fmt.Fprint(r.errOut, b.String())
}

// FormatDiagnostic renders one diagnostic line, indented under its file.
func FormatDiagnostic(d domain.Diagnostic) string {
	pos := dimStyle.Render(fmt.Sprintf("%d:%d", d.Line, d.Column))
	return fmt.Sprintf("  %s %s %s %s", pos, severityTag(d.Severity), d.Message, faintStyle.Render(d.RuleID))
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warning")
	default:
		return infoTagStyle.Render(string(severity))
	}
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
