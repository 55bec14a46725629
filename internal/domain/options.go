package domain

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultExtensions are linted when neither flags nor config name any.
func DefaultExtensions() []string {
	return []string{".go"}
}

// RunOptions is the immutable configuration of a single run, parsed from
// the command line. Workers receive it by value.
type RunOptions struct {
	Extensions        []string
	Fix               bool
	IgnorePath        string
	Quiet             bool
	Workers           int
	FailOnWorkerError bool
	ConfigPath        string
}

// AnalyzeOptions is the subset of the run handed to the engine. Root is
// always a directory: the lint root, or its parent for a single-file run.
type AnalyzeOptions struct {
	Fix    bool
	Root   string
	Config *LintConfig
}

// ParseExtensions splits a comma-separated --ext value.
func ParseExtensions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeExtensions(strings.Split(raw, ","))
}

// NormalizeExtensions trims, lowercases and dot-prefixes extensions and
// drops duplicates, keeping first occurrence order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return lo.Uniq(out)
}

// EffectiveExtensions resolves the extension set: flags win over config,
// config wins over defaults.
func (o RunOptions) EffectiveExtensions(cfg LintConfig) []string {
	if exts := NormalizeExtensions(o.Extensions); len(exts) > 0 {
		return exts
	}
	if exts := NormalizeExtensions(cfg.Extensions); len(exts) > 0 {
		return exts
	}
	return DefaultExtensions()
}

// EffectiveWorkers resolves the worker count: flags win over config, and a
// zero result means "one per available processing unit" (fallback).
func (o RunOptions) EffectiveWorkers(cfg LintConfig, fallback int) int {
	switch {
	case o.Workers > 0:
		return o.Workers
	case cfg.Workers > 0:
		return cfg.Workers
	case fallback > 0:
		return fallback
	default:
		return 1
	}
}

// FailsOnWorkerError reports whether a failed chunk must fail the run.
func (o RunOptions) FailsOnWorkerError(cfg LintConfig) bool {
	return o.FailOnWorkerError || cfg.FailOnWorkerError
}
