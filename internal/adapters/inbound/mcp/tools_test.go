package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/parlint/parlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

const todoSource = "package a\n\n// TODO: tidy\nfunc A() {}\n"

func TestHandleLint_ReturnsSummary(t *testing.T) {
	dir := project(t, map[string]string{
		".parlint.yaml": "extensions: [.go]\n",
		"a.go":          todoSource,
		"sub/b.go":      "package sub\n\nfunc {\n",
	})

	out, isErr := callTool(t, handleLint(dir), nil)
	require.False(t, isErr, out)

	var summary domain.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Targets)
	assert.Equal(t, 1, summary.Totals.Errors)
	assert.Equal(t, 1, summary.Totals.Warnings)
	assert.Equal(t, domain.ExitFailed, summary.ExitCode)
}

func TestHandleLint_SubpathAndQuiet(t *testing.T) {
	dir := project(t, map[string]string{
		".parlint.yaml": "extensions: [.go]\n",
		"a.go":          "package a\n\nfunc {\n",
		"sub/b.go":      "package sub\n\n// FIXME later\nfunc B() {}\n",
	})

	out, isErr := callTool(t, handleLint(dir), map[string]any{"path": "sub", "quiet": true})
	require.False(t, isErr, out)

	var summary domain.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Targets)
	assert.Empty(t, summary.Results, "quiet keeps only erroring files")
	assert.Equal(t, domain.ExitOK, summary.ExitCode)
}

func TestHandleLint_MissingConfig(t *testing.T) {
	dir := project(t, map[string]string{"a.go": todoSource})

	out, isErr := callTool(t, handleLint(dir), nil)
	assert.True(t, isErr)
	assert.Contains(t, out, "lint failed")
}

func TestHandleLint_RejectsEscapingPath(t *testing.T) {
	dir := project(t, map[string]string{".parlint.yaml": ""})

	out, isErr := callTool(t, handleLint(dir), map[string]any{"path": "../elsewhere"})
	assert.True(t, isErr)
	assert.Contains(t, out, "outside the project")
}

func TestHandleRules(t *testing.T) {
	out, isErr := callTool(t, handleRules(), nil)
	require.False(t, isErr)

	var rules []domain.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "gofmt")
	assert.Contains(t, names, "max_nesting")
}

func TestHandleConfigResource(t *testing.T) {
	dir := project(t, map[string]string{".parlint.yaml": "workers: 3\n"})

	contents, err := handleConfigResource(dir)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	var handle domain.ConfigHandle
	require.NoError(t, json.Unmarshal([]byte(text.Text), &handle))
	assert.Equal(t, 3, handle.Config.Workers)
	assert.Equal(t, filepath.Join(dir, ".parlint.yaml"), handle.Path)
}

func TestHandleConfigResource_NotFound(t *testing.T) {
	_, err := handleConfigResource(t.TempDir())(context.Background(), mcplib.ReadResourceRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()

	got, err := resolvePath(root, "")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = resolvePath(root, "pkg/a.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "pkg", "a.go"), got)

	_, err = resolvePath(root, "/etc")
	assert.Error(t, err)
	_, err = resolvePath(root, "..")
	assert.Error(t, err)
}
