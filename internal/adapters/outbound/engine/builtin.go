package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/parlint/parlint/internal/domain"
)

const (
	// parseLimit bounds concurrent file analysis inside one chunk.
	parseLimit   = 4
	maxFixPasses = 3
)

// Builtin analyzes Go sources with the rules in Catalog.
type Builtin struct{}

func NewBuiltin() *Builtin { return &Builtin{} }

// Analyze lints every file of the chunk. Any file that cannot be read or
// written fails the whole chunk.
func (b *Builtin) Analyze(ctx context.Context, files []string, opts domain.AnalyzeOptions) ([]domain.FileResult, error) {
	var overrides map[string]domain.RuleConfig
	if opts.Config != nil {
		overrides = opts.Config.Rules
	}
	rules, err := buildRules(overrides)
	if err != nil {
		return nil, err
	}

	results := make([]domain.FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseLimit)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := lintFile(path, rules, opts.Fix)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lintFile analyzes one file, applying suggested fixes first when fix is set.
func lintFile(path string, rules []activeRule, fix bool) (domain.FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return domain.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	fixed := false
	if fix {
		for i := 0; i < maxFixPasses; i++ {
			fset, _, edits, err := analyzeSource(path, src, rules)
			if err != nil {
				return domain.FileResult{}, err
			}
			if len(edits) == 0 {
				break
			}
			next, err := applyEdits(fset, src, edits)
			if err != nil {
				return domain.FileResult{}, fmt.Errorf("fixing %s: %w", path, err)
			}
			if bytes.Equal(next, src) {
				break
			}
			src, fixed = next, true
		}
		if fixed {
			if err := writeFile(path, src); err != nil {
				return domain.FileResult{}, err
			}
		}
	}

	_, diags, _, err := analyzeSource(path, src, rules)
	if err != nil {
		return domain.FileResult{}, err
	}
	result := domain.NewFileResult(path, diags)
	result.Fixed = fixed
	return result, nil
}

func writeFile(path string, src []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing fixes to %s: %w", path, err)
	}
	return nil
}

// analyzeSource parses src and runs every rule over it. It returns the
// unsuppressed diagnostics ordered by position, plus the text edits of
// their suggested fixes. A parse failure yields a single fatal syntax
// diagnostic and no edits.
func analyzeSource(path string, src []byte, rules []activeRule) (*token.FileSet, []domain.Diagnostic, []analysis.TextEdit, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.AllErrors)
	if err != nil {
		return fset, []domain.Diagnostic{syntaxDiagnostic(err)}, nil, nil
	}

	ignores := buildIgnoreMap(fset, file)
	insp := inspector.New([]*ast.File{file})

	var (
		diags []domain.Diagnostic
		edits []analysis.TextEdit
	)
	for _, rule := range rules {
		found, err := runRule(rule.analyzer, fset, file, path, src, insp)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("rule %s on %s: %w", rule.analyzer.Name, path, err)
		}
		for _, d := range found {
			start := fset.Position(d.Pos)
			if ignores.suppressed(start.Line, rule.analyzer.Name) {
				continue
			}
			diag := domain.Diagnostic{
				RuleID:   rule.analyzer.Name,
				Severity: rule.severity,
				Message:  d.Message,
				Line:     start.Line,
				Column:   start.Column,
				Fixable:  len(d.SuggestedFixes) > 0,
			}
			if d.End.IsValid() {
				end := fset.Position(d.End)
				diag.EndLine, diag.EndColumn = end.Line, end.Column
			}
			diags = append(diags, diag)
			for _, sf := range d.SuggestedFixes {
				edits = append(edits, sf.TextEdits...)
			}
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
	return fset, diags, edits, nil
}

func runRule(
	a *analysis.Analyzer,
	fset *token.FileSet,
	file *ast.File,
	path string,
	src []byte,
	insp *inspector.Inspector,
) ([]analysis.Diagnostic, error) {
	var found []analysis.Diagnostic
	pass := &analysis.Pass{
		Analyzer: a,
		Fset:     fset,
		Files:    []*ast.File{file},
		ResultOf: map[*analysis.Analyzer]any{inspect.Analyzer: insp},
		Report:   func(d analysis.Diagnostic) { found = append(found, d) },
		ReadFile: func(name string) ([]byte, error) {
			if name == path {
				return src, nil
			}
			return os.ReadFile(name)
		},
	}
	if _, err := a.Run(pass); err != nil {
		return nil, err
	}
	return found, nil
}

func syntaxDiagnostic(err error) domain.Diagnostic {
	d := domain.Diagnostic{
		RuleID:   RuleSyntax,
		Severity: domain.SeverityError,
		Message:  err.Error(),
		Line:     1,
		Column:   1,
		Fatal:    true,
	}
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		d.Message = list[0].Msg
		d.Line, d.Column = list[0].Pos.Line, list[0].Pos.Column
	}
	return d
}
