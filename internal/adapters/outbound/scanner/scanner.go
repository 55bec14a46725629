package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/samber/lo"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
}

// FileScanner implements domain.TargetResolver by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// ResolveTargets returns every file below root whose name ends in one of
// extensions and that no ignore pattern matches. Patterns use gitignore
// syntax relative to base, the directory they were declared in; root may
// sit anywhere below it. An empty base means root. A root that is itself a
// file goes through the same extension and ignore checks. The result is
// absolute, deduplicated and lexically ordered.
func (s *FileScanner) ResolveTargets(root, base string, extensions, ignorePatterns []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}

	if base == "" {
		base = absRoot
		if !info.IsDir() {
			base = filepath.Dir(absRoot)
		}
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	m := newMatcher(absBase, ignorePatterns)

	if !info.IsDir() {
		if !info.Mode().IsRegular() || !hasExtension(info.Name(), extensions) || m.ignored(absRoot, false) {
			return nil, nil
		}
		return []string{absRoot}, nil
	}
	if m.ignored(absRoot, true) {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] || m.match(path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExtension(d.Name(), extensions) {
			return nil
		}
		if m.match(path, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return lo.Uniq(files), nil
}

// matcher applies gitignore patterns to absolute paths below base.
// Paths outside base are never ignored.
type matcher struct {
	base string
	m    gitignore.Matcher
}

func newMatcher(base string, patterns []string) matcher {
	return matcher{
		base: base,
		m: gitignore.NewMatcher(lo.Map(patterns, func(p string, _ int) gitignore.Pattern {
			return gitignore.ParsePattern(p, nil)
		})),
	}
}

func (m matcher) parts(path string) []string {
	rel, err := filepath.Rel(m.base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// match checks path itself. The walk prunes ignored directories, so their
// contents never reach it.
func (m matcher) match(path string, isDir bool) bool {
	parts := m.parts(path)
	return len(parts) > 0 && m.m.Match(parts, isDir)
}

// ignored checks path and every directory between base and path.
func (m matcher) ignored(path string, isDir bool) bool {
	parts := m.parts(path)
	for i := 1; i <= len(parts); i++ {
		if m.m.Match(parts[:i], i < len(parts) || isDir) {
			return true
		}
	}
	return false
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	return lo.SomeBy(extensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}
