package domain

import "context"

// ConfigLocator finds the configuration for a directory.
// It returns ErrConfigNotFound when no configuration file exists.
type ConfigLocator interface {
	Locate(dir string) (*ConfigHandle, error)
	Load(path string) (*ConfigHandle, error)
}

// IgnoreResolver produces the ordered ignore patterns for a run.
type IgnoreResolver interface {
	ResolveIgnore(opts RunOptions, cfg *ConfigHandle) ([]string, error)
}

// TargetResolver discovers the files to lint under root. Ignore patterns
// are relative to base, the directory of the configuration that declared
// them. The result is absolute, deduplicated and ordered.
type TargetResolver interface {
	ResolveTargets(root, base string, extensions, ignorePatterns []string) ([]string, error)
}

// Analyzer is the analysis engine. It may block for a long time and may
// rewrite files when opts.Fix is set. Implementations must be safe for
// concurrent use by multiple workers.
type Analyzer interface {
	Analyze(ctx context.Context, files []string, opts AnalyzeOptions) ([]FileResult, error)
}

// Reporter renders file results as they arrive.
type Reporter interface {
	Emit(result FileResult, quiet bool)
}

// GitInfo stamps reports with the commit they were produced from.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}
