package domain

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigFileNames is the ordered list of file names checked when looking
// up a configuration. The first match in a directory wins.
var ConfigFileNames = []string{
	".parlint.yaml",
	".parlint.yml",
	"parlint.yaml",
	".parlint.json",
}

// DefaultIgnoreFileName is read next to the config file when no
// --ignore-path override is given.
const DefaultIgnoreFileName = ".parlintignore"

// EngineKind selects the analysis engine.
type EngineKind string

const (
	EngineBuiltin EngineKind = "builtin"
	EngineCommand EngineKind = "command"
)

// ValidEngineKinds enumerates all recognized engine kinds.
var ValidEngineKinds = []EngineKind{EngineBuiltin, EngineCommand}

// LintConfig holds project-level configuration loaded from .parlint.yaml.
type LintConfig struct {
	Extensions        []string              `yaml:"extensions"           json:"extensions,omitempty"`
	IgnorePatterns    []string              `yaml:"ignore_patterns"      json:"ignore_patterns,omitempty"`
	RespectGitignore  bool                  `yaml:"respect_gitignore"    json:"respect_gitignore,omitempty"`
	Workers           int                   `yaml:"workers"              json:"workers,omitempty"`
	FailOnWorkerError bool                  `yaml:"fail_on_worker_error" json:"fail_on_worker_error,omitempty"`
	Engine            EngineConfig          `yaml:"engine"               json:"engine"`
	Rules             map[string]RuleConfig `yaml:"rules"                json:"rules,omitempty"`
}

// EngineConfig configures the engine behind the Analyzer port.
type EngineConfig struct {
	Kind    EngineKind `yaml:"kind"     json:"kind,omitempty"`
	Command string     `yaml:"command"  json:"command,omitempty"`
	Args    []string   `yaml:"args"     json:"args,omitempty"`
	FixArgs []string   `yaml:"fix_args" json:"fix_args,omitempty"`
}

// RuleConfig overrides a single rule. An empty Severity keeps the rule's
// default severity; a zero Max keeps its default threshold.
type RuleConfig struct {
	Severity Severity `yaml:"severity" json:"severity,omitempty"`
	Max      int      `yaml:"max"      json:"max,omitempty"`
}

// UnmarshalYAML accepts both the scalar shorthand (`no_todo: off`) and the
// mapping form (`max_lines: {severity: warn, max: 300}`).
func (r *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		sev, err := ParseSeverity(node.Value)
		if err != nil {
			return err
		}
		*r = RuleConfig{Severity: sev}
		return nil
	}

	var raw struct {
		Severity string `yaml:"severity"`
		Max      int    `yaml:"max"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*r = RuleConfig{Max: raw.Max}
	if raw.Severity != "" {
		sev, err := ParseSeverity(raw.Severity)
		if err != nil {
			return err
		}
		r.Severity = sev
	}
	return nil
}

// ConfigHandle is a located and parsed configuration.
type ConfigHandle struct {
	Path   string     `json:"path"`
	Dir    string     `json:"dir"`
	Config LintConfig `json:"config"`
}

// DefaultConfig returns the configuration written by `parlint init`.
func DefaultConfig() LintConfig {
	return LintConfig{
		Extensions: DefaultExtensions(),
		Engine:     EngineConfig{Kind: EngineBuiltin},
	}
}

// EffectiveEngine returns the engine kind, defaulting to builtin.
func (c LintConfig) EffectiveEngine() EngineKind {
	if c.Engine.Kind == "" {
		return EngineBuiltin
	}
	return c.Engine.Kind
}

// Validate checks the config for values no engine could honour.
func (c LintConfig) Validate() error {
	var errs []error

	kind := c.EffectiveEngine()
	valid := false
	for _, k := range ValidEngineKinds {
		if kind == k {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("unknown engine kind %q (valid: builtin, command)", kind))
	}
	if kind == EngineCommand && c.Engine.Command == "" {
		errs = append(errs, errors.New("engine.command is required for the command engine"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	for name, rule := range c.Rules {
		if rule.Max < 0 {
			errs = append(errs, fmt.Errorf("rules.%s.max must be >= 0, got %d", name, rule.Max))
		}
		switch rule.Severity {
		case "", SeverityPass, SeverityWarning, SeverityError:
		default:
			errs = append(errs, fmt.Errorf("rules.%s: unknown severity %q", name, rule.Severity))
		}
	}
	for _, ext := range c.Extensions {
		if ext == "" || ext == "." {
			errs = append(errs, errors.New("extensions: empty extension"))
		}
	}

	return errors.Join(errs...)
}
