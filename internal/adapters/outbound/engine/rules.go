package engine

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"regexp"
	"sort"

	"github.com/fatih/camelcase"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/parlint/parlint/internal/domain"
)

// RuleSyntax reports files that do not parse. It cannot be disabled.
const RuleSyntax = "syntax"

type ruleSpec struct {
	domain.RuleInfo
	build func(limit int) *analysis.Analyzer
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

var catalog = []ruleSpec{
	{
		RuleInfo: domain.RuleInfo{Name: RuleSyntax, Doc: "file must parse", Severity: domain.SeverityError},
	},
	{
		RuleInfo: domain.RuleInfo{Name: "gofmt", Doc: "file must be formatted as gofmt would", Severity: domain.SeverityError, Fixable: true},
		build:    func(int) *analysis.Analyzer { return newAnalyzer("gofmt", "file must be formatted as gofmt would", runGofmt) },
	},
	{
		RuleInfo: domain.RuleInfo{Name: "max_lines", Doc: "limits the number of lines in a file", Severity: domain.SeverityWarning, Max: 500},
		build:    maxLines,
	},
	{
		RuleInfo: domain.RuleInfo{Name: "max_func_lines", Doc: "limits the number of lines in a function body", Severity: domain.SeverityWarning, Max: 80},
		build:    maxFuncLines,
	},
	{
		RuleInfo: domain.RuleInfo{Name: "max_params", Doc: "limits the number of function parameters", Severity: domain.SeverityWarning, Max: 5},
		build:    maxParams,
	},
	{
		RuleInfo: domain.RuleInfo{Name: "max_nesting", Doc: "limits block nesting depth inside a function", Severity: domain.SeverityWarning, Max: 4},
		build:    maxNesting,
	},
	{
		RuleInfo: domain.RuleInfo{Name: "no_todo", Doc: "flags TODO and FIXME comments", Severity: domain.SeverityWarning},
		build:    func(int) *analysis.Analyzer { return newAnalyzer("no_todo", "flags TODO and FIXME comments", runNoTodo) },
	},
	{
		RuleInfo: domain.RuleInfo{Name: "ident_words", Doc: "limits the number of CamelCase words in exported function names", Severity: domain.SeverityPass, Max: 5},
		build:    identWords,
	},
}

// Catalog lists the builtin rules ordered by name.
func Catalog() []domain.RuleInfo {
	out := make([]domain.RuleInfo, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s.RuleInfo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// activeRule is a rule analyzer with its configured severity.
type activeRule struct {
	analyzer *analysis.Analyzer
	severity domain.Severity
}

// buildRules turns config overrides into the set of enabled analyzers.
// Unknown rule names are an error.
func buildRules(overrides map[string]domain.RuleConfig) ([]activeRule, error) {
	known := make(map[string]bool, len(catalog))
	for _, s := range catalog {
		known[s.Name] = true
	}
	var unknown []error
	for name := range overrides {
		if !known[name] {
			unknown = append(unknown, fmt.Errorf("unknown rule %q", name))
		}
	}
	if len(unknown) > 0 {
		sort.Slice(unknown, func(i, j int) bool { return unknown[i].Error() < unknown[j].Error() })
		return nil, errors.Join(unknown...)
	}

	var rules []activeRule
	for _, s := range catalog {
		if s.build == nil {
			continue
		}
		sev, limit := s.Severity, s.Max
		if o, ok := overrides[s.Name]; ok {
			if o.Severity != "" {
				sev = o.Severity
			}
			if o.Max > 0 {
				limit = o.Max
			}
		}
		if sev == domain.SeverityPass {
			continue
		}
		rules = append(rules, activeRule{analyzer: s.build(limit), severity: sev})
	}
	return rules, nil
}

func newAnalyzer(name, doc string, run func(*analysis.Pass, *inspector.Inspector) error) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     name,
		Doc:      doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run: func(pass *analysis.Pass) (any, error) {
			insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
			if !ok {
				return nil, ErrNoInspector
			}
			return nil, run(pass, insp)
		},
	}
}

func runGofmt(pass *analysis.Pass, _ *inspector.Inspector) error {
	for _, file := range pass.Files {
		name := pass.Fset.Position(file.FileStart).Filename
		src, err := pass.ReadFile(name)
		if err != nil {
			return err
		}
		formatted, err := format.Source(src)
		if err != nil {
			continue // syntax rule covers it
		}
		if bytes.Equal(src, formatted) {
			continue
		}
		pass.Report(analysis.Diagnostic{
			Pos:     file.FileStart,
			Message: "file is not gofmt-ed",
			SuggestedFixes: []analysis.SuggestedFix{{
				Message:   "run gofmt",
				TextEdits: []analysis.TextEdit{{Pos: file.FileStart, End: file.FileEnd, NewText: formatted}},
			}},
		})
	}
	return nil
}

func maxLines(limit int) *analysis.Analyzer {
	return newAnalyzer("max_lines", "limits the number of lines in a file", func(pass *analysis.Pass, _ *inspector.Inspector) error {
		for _, file := range pass.Files {
			n := pass.Fset.File(file.FileStart).LineCount()
			if n > limit {
				pass.Reportf(file.FileStart, "file has %d lines (max %d)", n, limit)
			}
		}
		return nil
	})
}

func maxFuncLines(limit int) *analysis.Analyzer {
	return newAnalyzer("max_func_lines", "limits the number of lines in a function body", func(pass *analysis.Pass, insp *inspector.Inspector) error {
		insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
			fn := n.(*ast.FuncDecl)
			if fn.Body == nil {
				return
			}
			lines := pass.Fset.Position(fn.Body.Rbrace).Line - pass.Fset.Position(fn.Body.Lbrace).Line - 1
			if lines > limit {
				pass.Reportf(fn.Name.Pos(), "function %s has %d lines (max %d)", fn.Name.Name, lines, limit)
			}
		})
		return nil
	})
}

func maxParams(limit int) *analysis.Analyzer {
	return newAnalyzer("max_params", "limits the number of function parameters", func(pass *analysis.Pass, insp *inspector.Inspector) error {
		insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
			fn := n.(*ast.FuncDecl)
			if count := paramCount(fn.Type.Params); count > limit {
				pass.Reportf(fn.Name.Pos(), "function %s has %d parameters (max %d)", fn.Name.Name, count, limit)
			}
		})
		return nil
	})
}

func paramCount(fields *ast.FieldList) int {
	if fields == nil {
		return 0
	}
	n := 0
	for _, f := range fields.List {
		if len(f.Names) == 0 {
			n++
			continue
		}
		n += len(f.Names)
	}
	return n
}

func maxNesting(limit int) *analysis.Analyzer {
	return newAnalyzer("max_nesting", "limits block nesting depth inside a function", func(pass *analysis.Pass, insp *inspector.Inspector) error {
		insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
			fn := n.(*ast.FuncDecl)
			if fn.Body == nil {
				return
			}
			if depth, at := nestingDepth(fn.Body); depth > limit {
				pass.Reportf(at.Pos(), "function %s is nested %d levels deep (max %d)", fn.Name.Name, depth, limit)
			}
		})
		return nil
	})
}

// nestingDepth returns the deepest control-flow nesting inside body and the
// statement where it is reached. An else-if chain counts as one level.
func nestingDepth(body *ast.BlockStmt) (int, ast.Node) {
	var (
		stack          []bool
		depth, deepest int
	)
	var at ast.Node = body
	elseIfs := map[*ast.IfStmt]bool{}
	ast.Inspect(body, func(n ast.Node) bool {
		if n == nil {
			if stack[len(stack)-1] {
				depth--
			}
			stack = stack[:len(stack)-1]
			return true
		}

		nests := false
		switch s := n.(type) {
		case *ast.IfStmt:
			if next, ok := s.Else.(*ast.IfStmt); ok {
				elseIfs[next] = true
			}
			nests = !elseIfs[s]
		case *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
			nests = true
		}
		if nests {
			depth++
			if depth > deepest {
				deepest, at = depth, n
			}
		}
		stack = append(stack, nests)
		return true
	})
	return deepest, at
}

var todoPattern = regexp.MustCompile(`\b(TODO|FIXME)\b`)

func runNoTodo(pass *analysis.Pass, _ *inspector.Inspector) error {
	for _, file := range pass.Files {
		for _, cg := range file.Comments {
			for _, c := range cg.List {
				if m := todoPattern.FindString(c.Text); m != "" {
					pass.Reportf(c.Pos(), "%s comment", m)
				}
			}
		}
	}
	return nil
}

func identWords(limit int) *analysis.Analyzer {
	return newAnalyzer("ident_words", "limits the number of CamelCase words in exported function names", func(pass *analysis.Pass, insp *inspector.Inspector) error {
		insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
			fn := n.(*ast.FuncDecl)
			if !fn.Name.IsExported() {
				return
			}
			if words := camelcase.Split(fn.Name.Name); len(words) > limit {
				pass.Reportf(fn.Name.Pos(), "function name %s has %d words (max %d)", fn.Name.Name, len(words), limit)
			}
		})
		return nil
	})
}
