package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/parlint/parlint/internal/domain"
)

// RenderFailures renders failed workers and the interrupt notice. It is
// empty for a run that completed on every worker.
func RenderFailures(s *domain.RunSummary) string {
	var b strings.Builder
	for _, f := range s.FailedWorkers {
		line := fmt.Sprintf("⚠ worker %d failed on %s", f.WorkerID, plural(f.FileCount, "file"))
		if f.FirstFile != "" {
			line += " starting at " + displayPath(s.Root, f.FirstFile)
		}
		b.WriteString(warnStyle.Render(line) + "\n")
		b.WriteString("  " + faintStyle.Render(f.Error) + "\n")
	}
	if s.Incomplete {
		b.WriteString(failStyle.Render("run interrupted, results are incomplete") + "\n")
	}
	return b.String()
}

// RenderSummary renders the closing block of a run: the problem totals and
// run statistics.
func RenderSummary(s *domain.RunSummary) string {
	if s.NoFiles {
		return dimStyle.Render("no files to lint") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")

	t := s.Totals
	if t.Problems() > 0 {
		head := fmt.Sprintf("✖ %s (%s, %s)", plural(t.Problems(), "problem"), plural(t.Errors, "error"), plural(t.Warnings, "warning"))
		if t.Errors > 0 {
			b.WriteString(errorTagStyle.Render(head) + "\n")
		} else {
			b.WriteString(warnTagStyle.Render(head) + "\n")
		}
		if t.Fixable > 0 {
			b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d potentially fixable with --fix", t.Fixable)) + "\n")
		}
	} else {
		b.WriteString(passStyle.Render(fmt.Sprintf("✓ %s linted, no problems", plural(t.Files, "file"))) + "\n")
	}
	if t.Fixed > 0 {
		b.WriteString("  " + accentStyle.Render(plural(t.Fixed, "file")+" fixed") + "\n")
	}

	stats := fmt.Sprintf("%s · %s · %s", plural(s.Targets, "target"), plural(s.Workers, "worker"), s.Duration.Round(time.Millisecond))
	b.WriteString(faintStyle.Render(stats) + "\n")
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// RenderError renders a fatal error line.
func RenderError(err error) string {
	return failStyle.Render("✖ "+err.Error()) + "\n"
}
