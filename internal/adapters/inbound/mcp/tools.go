package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/parlint/parlint/internal/adapters/outbound/config"
	"github.com/parlint/parlint/internal/adapters/outbound/engine"
	"github.com/parlint/parlint/internal/adapters/outbound/gitinfo"
	"github.com/parlint/parlint/internal/adapters/outbound/ignore"
	"github.com/parlint/parlint/internal/adapters/outbound/scanner"
	"github.com/parlint/parlint/internal/adapters/outbound/tui"
	"github.com/parlint/parlint/internal/application"
	"github.com/parlint/parlint/internal/domain"
)

// registerTools registers all parlint MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. parlint_lint
	s.AddTool(
		mcplib.NewTool("parlint_lint",
			mcplib.WithDescription("Lint the project (or a path inside it) in parallel and return the run summary as JSON"),
			mcplib.WithString("path", mcplib.Description("File or directory relative to the project root (default: project root)")),
			mcplib.WithBoolean("fix", mcplib.Description("Apply automatic fixes and rewrite files")),
			mcplib.WithString("ext", mcplib.Description("Comma-separated extensions to lint, e.g. .go,.js")),
			mcplib.WithBoolean("quiet", mcplib.Description("Report errors only")),
		),
		handleLint(projectPath),
	)

	// 2. parlint_rules
	s.AddTool(
		mcplib.NewTool("parlint_rules",
			mcplib.WithDescription("List the builtin rules with their default severity and threshold"),
		),
		handleRules(),
	)
}

// newLintService wires the outbound adapters. Results are returned to the
// client, so nothing is streamed.
func newLintService() *application.LintService {
	return application.NewLintService(
		config.New(),
		ignore.New(),
		scanner.New(),
		engine.New(),
		tui.JSONReporter{},
		nil,
	).WithGitInfo(gitinfo.New())
}

func handleLint(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		rel, _ := args["path"].(string)
		fix, _ := args["fix"].(bool)
		ext, _ := args["ext"].(string)
		quiet, _ := args["quiet"].(bool)

		target, err := resolvePath(projectPath, rel)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		opts := domain.RunOptions{
			Extensions: domain.ParseExtensions(ext),
			Fix:        fix,
			Quiet:      quiet,
		}
		summary, err := newLintService().RunAll(ctx, target, opts)
		if summary == nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}

		var buf bytes.Buffer
		if err := tui.WriteJSON(&buf, summary, quiet); err != nil {
			return nil, fmt.Errorf("marshaling summary: %w", err)
		}
		return textResult(buf.String()), nil
	}
}

func handleRules() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(engine.Catalog())
	}
}

// resolvePath joins rel onto the project root and rejects paths that
// escape it.
func resolvePath(projectPath, rel string) (string, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving project path: %w", err)
	}
	if rel == "" {
		return root, nil
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q must be relative to the project root", rel)
	}
	target := filepath.Join(root, rel)
	inside, err := filepath.Rel(root, target)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the project", rel)
	}
	return target, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
