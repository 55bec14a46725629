package domain_test

import (
	"testing"

	"github.com/parlint/parlint/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseExtensions(t *testing.T) {
	assert.Equal(t, []string{".js", ".jsx", ".ts"}, domain.ParseExtensions("js, .JSX,ts,js"))
	assert.Nil(t, domain.ParseExtensions(""))
	assert.Nil(t, domain.ParseExtensions("   "))
}

func TestNormalizeExtensions_DropsEmpty(t *testing.T) {
	assert.Equal(t, []string{".go"}, domain.NormalizeExtensions([]string{"", ".", "go"}))
}

func TestRunOptions_EffectiveExtensions(t *testing.T) {
	cfg := domain.LintConfig{Extensions: []string{".js"}}

	assert.Equal(t, []string{".ts"}, domain.RunOptions{Extensions: []string{"ts"}}.EffectiveExtensions(cfg), "flags win")
	assert.Equal(t, []string{".js"}, domain.RunOptions{}.EffectiveExtensions(cfg), "config wins over defaults")
	assert.Equal(t, []string{".go"}, domain.RunOptions{}.EffectiveExtensions(domain.LintConfig{}))
}

func TestRunOptions_EffectiveWorkers(t *testing.T) {
	assert.Equal(t, 3, domain.RunOptions{Workers: 3}.EffectiveWorkers(domain.LintConfig{Workers: 7}, 8))
	assert.Equal(t, 7, domain.RunOptions{}.EffectiveWorkers(domain.LintConfig{Workers: 7}, 8))
	assert.Equal(t, 8, domain.RunOptions{}.EffectiveWorkers(domain.LintConfig{}, 8))
	assert.Equal(t, 1, domain.RunOptions{}.EffectiveWorkers(domain.LintConfig{}, 0))
}

func TestRunOptions_FailsOnWorkerError(t *testing.T) {
	assert.False(t, domain.RunOptions{}.FailsOnWorkerError(domain.LintConfig{}))
	assert.True(t, domain.RunOptions{FailOnWorkerError: true}.FailsOnWorkerError(domain.LintConfig{}))
	assert.True(t, domain.RunOptions{}.FailsOnWorkerError(domain.LintConfig{FailOnWorkerError: true}))
}
