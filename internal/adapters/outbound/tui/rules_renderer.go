package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/parlint/parlint/internal/domain"
)

// RenderRules renders the rule catalog with the severities in effect
// under cfg.
func RenderRules(rules []domain.RuleInfo, cfg domain.LintConfig) string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		sev, limit := r.Severity, r.Max
		if o, ok := cfg.Rules[r.Name]; ok {
			if o.Severity != "" {
				sev = o.Severity
			}
			if o.Max > 0 && limit > 0 {
				limit = o.Max
			}
		}
		maxCol := "-"
		if limit > 0 {
			maxCol = strconv.Itoa(limit)
		}
		fixCol := ""
		if r.Fixable {
			fixCol = "yes"
		}
		rows = append(rows, []string{r.Name, severityLabel(sev), maxCol, fixCol, r.Doc})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers("RULE", "SEVERITY", "MAX", "FIX", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func severityLabel(sev domain.Severity) string {
	if sev == domain.SeverityPass {
		return "off"
	}
	return string(sev)
}
