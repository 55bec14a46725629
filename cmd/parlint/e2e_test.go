package main_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/parlint/parlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "parlint-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "parlint")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/sample", name))
	return abs
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
		exitCode = exitErr.ExitCode()
	}
	return stdout.String(), stderr.String(), exitCode
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestE2E_CleanTreeExitsZero(t *testing.T) {
	out, _, code := run(t, fixturePath("clean"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "✓ sum.go")
	assert.Contains(t, out, "✓ twice.go")
	assert.Contains(t, out, "2 files linted, no problems")
}

func TestE2E_WarningsExitZero(t *testing.T) {
	out, errOut, code := run(t, fixturePath("warn"))
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "TODO comment")
	assert.Contains(t, out, "1 problem (0 errors, 1 warning)")
}

func TestE2E_ErrorsExitOne(t *testing.T) {
	out, errOut, code := run(t, fixturePath(""))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "broken/bad.go")
	assert.Contains(t, errOut, "syntax")
	assert.NotContains(t, errOut, "zz_generated", "ignore_patterns honoured")
	assert.Contains(t, out, "4 targets · 2 workers")
}

func TestE2E_QuietDropsWarnings(t *testing.T) {
	out, errOut, code := run(t, fixturePath(""), "--quiet")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "syntax")
	assert.NotContains(t, errOut, "TODO comment")
	assert.NotContains(t, out, "✓ clean/sum.go")
}

func TestE2E_NoFilesExitsZero(t *testing.T) {
	out, _, code := run(t, fixturePath("broken"), "--ext", ".rs")
	assert.Equal(t, 0, code)
	assert.Equal(t, "no files to lint\n", out)
}

func TestE2E_MissingConfigExitsOne(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.go": "package a\n"})

	_, errOut, code := run(t, dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no parlint configuration found")
}

func TestE2E_JSON(t *testing.T) {
	out, _, code := run(t, fixturePath(""), "--format", "json", "--workers", "4")
	assert.Equal(t, 1, code)

	var summary domain.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Targets)
	assert.Equal(t, 4, summary.Workers)
	assert.Len(t, summary.Results, 4)
	assert.Equal(t, 1, summary.Totals.Errors)
	assert.Equal(t, 1, summary.Totals.Warnings)
	assert.Equal(t, domain.ExitFailed, summary.ExitCode)
}

func TestE2E_FixRewritesFiles(t *testing.T) {
	dir := writeProject(t, map[string]string{
		".parlint.yaml": "extensions: [.go]\n",
		"a.go":          "package a\nfunc A()  {}\n",
	})

	out, _, code := run(t, dir, "--fix")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "1 file fixed")

	data, err := os.ReadFile(filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package a\n\nfunc A() {}\n", string(data))
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "parlint")
}
