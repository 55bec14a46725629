package domain_test

import (
	"testing"

	"github.com/parlint/parlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Severity
	}{
		{"off", domain.SeverityPass},
		{"0", domain.SeverityPass},
		{"warn", domain.SeverityWarning},
		{"Warning", domain.SeverityWarning},
		{"1", domain.SeverityWarning},
		{"error", domain.SeverityError},
		{" ERROR ", domain.SeverityError},
		{"2", domain.SeverityError},
	}
	for _, tt := range tests {
		got, err := domain.ParseSeverity(tt.raw)
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestParseSeverity_Unknown(t *testing.T) {
	_, err := domain.ParseSeverity("fatal")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestNewFileResult_DerivesCounts(t *testing.T) {
	r := domain.NewFileResult("/src/a.go", []domain.Diagnostic{
		{RuleID: "gofmt", Severity: domain.SeverityError, Fixable: true},
		{RuleID: "no_todo", Severity: domain.SeverityWarning},
		{RuleID: "max_lines", Severity: domain.SeverityWarning},
	})

	assert.Equal(t, "/src/a.go", r.Path)
	assert.Equal(t, 1, r.ErrorCount)
	assert.Equal(t, 2, r.WarningCount)
	assert.Equal(t, 1, r.FixableCount)
	assert.False(t, r.Passed())
}

func TestNewFileResult_NoDiagnosticsPasses(t *testing.T) {
	r := domain.NewFileResult("/src/a.go", nil)
	assert.True(t, r.Passed())
	assert.NotNil(t, r.Diagnostics, "diagnostics should encode as [] not null")
}

func TestWorkerOutcome_Failed(t *testing.T) {
	assert.False(t, domain.WorkerOutcome{}.Failed())
	assert.True(t, domain.WorkerOutcome{Err: domain.ErrWorkerPanic}.Failed())
}

func TestTotals_Problems(t *testing.T) {
	assert.Equal(t, 5, domain.Totals{Errors: 2, Warnings: 3}.Problems())
}
