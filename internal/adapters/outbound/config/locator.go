package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parlint/parlint/internal/domain"
	"gopkg.in/yaml.v3"
)

// Locator implements domain.ConfigLocator by reading .parlint.yaml (or one
// of its alternative names) from a directory or the nearest parent.
type Locator struct{}

// New creates a Locator.
func New() *Locator { return &Locator{} }

// Locate checks dir and then each parent for the first of
// domain.ConfigFileNames. Returns domain.ErrConfigNotFound if none exists.
func (l *Locator) Locate(dir string) (*domain.ConfigHandle, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	for cur := absDir; ; {
		if path, ok := findIn(cur); ok {
			return l.Load(path)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return nil, fmt.Errorf("%w (looked for %s in %s and its parents)",
		domain.ErrConfigNotFound, domain.ConfigFileNames[0], absDir)
}

func findIn(dir string) (string, bool) {
	for _, name := range domain.ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load parses the configuration at path. JSON files are read by the same
// decoder since JSON is valid YAML.
func (l *Locator) Load(path string) (*domain.ConfigHandle, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, absPath)
		}
		return nil, err
	}

	var cfg domain.LintConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(absPath), err)
	}

	// Validate before normalizing so typos surface as written.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(absPath), err)
	}
	cfg.Extensions = domain.NormalizeExtensions(cfg.Extensions)

	return &domain.ConfigHandle{
		Path:   absPath,
		Dir:    filepath.Dir(absPath),
		Config: cfg,
	}, nil
}

// Render returns the YAML form of cfg, as written by `parlint init`.
func Render(cfg domain.LintConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
