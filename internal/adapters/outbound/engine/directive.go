package engine

import (
	"go/ast"
	"go/token"
	"strings"
)

const ignoreDirective = "parlint:ignore"

// ignoreMap holds //parlint:ignore directives by line. A nil rule list
// ignores every rule.
type ignoreMap map[int][]string

// buildIgnoreMap scans a file's comments for ignore directives.
//
// Supported formats:
//   - //parlint:ignore                      -> ignore all rules
//   - //parlint:ignore max_params           -> ignore one rule
//   - //parlint:ignore no_todo,max_lines    -> ignore several rules
//   - //parlint:ignore no_todo - reason     -> trailing reason is dropped
func buildIgnoreMap(fset *token.FileSet, file *ast.File) ignoreMap {
	m := make(ignoreMap)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if rules, ok := parseIgnore(c.Text); ok {
				m[fset.Position(c.Pos()).Line] = rules
			}
		}
	}
	return m
}

func parseIgnore(text string) ([]string, bool) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
	if !strings.HasPrefix(text, ignoreDirective) {
		return nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, ignoreDirective))
	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" || rest == "-" || strings.HasPrefix(rest, "- ") {
		return nil, true
	}

	var rules []string
	for _, part := range strings.Split(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			rules = append(rules, name)
		}
	}
	return rules, true
}

// suppressed reports whether a directive on line or the line above covers rule.
func (m ignoreMap) suppressed(line int, rule string) bool {
	return m.covers(line, rule) || m.covers(line-1, rule)
}

func (m ignoreMap) covers(line int, rule string) bool {
	rules, ok := m[line]
	if !ok {
		return false
	}
	if len(rules) == 0 {
		return true
	}
	for _, r := range rules {
		if r == rule {
			return true
		}
	}
	return false
}
