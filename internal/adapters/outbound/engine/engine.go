// Package engine implements the analysis engines behind domain.Analyzer:
// the builtin Go rules and an external command speaking ESLint JSON.
package engine

import (
	"context"

	"github.com/parlint/parlint/internal/domain"
)

// Engine dispatches each chunk to the engine named by the run's config.
type Engine struct {
	builtin *Builtin
	command *Command
}

func New() *Engine {
	return &Engine{builtin: NewBuiltin(), command: NewCommand()}
}

func (e *Engine) Analyze(ctx context.Context, files []string, opts domain.AnalyzeOptions) ([]domain.FileResult, error) {
	if opts.Config != nil && opts.Config.EffectiveEngine() == domain.EngineCommand {
		return e.command.Analyze(ctx, files, opts)
	}
	return e.builtin.Analyze(ctx, files, opts)
}
