package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/parlint/parlint/internal/domain"
)

const gitignoreFile = ".gitignore"

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Resolver implements domain.IgnoreResolver. Patterns come, in order, from
// the ignore file, the config's ignore_patterns and, when
// respect_gitignore is set, every .gitignore below the config directory.
type Resolver struct {
	fs func(dir string) billy.Filesystem
}

func New() *Resolver {
	return &Resolver{fs: func(dir string) billy.Filesystem { return osfs.New(dir) }}
}

// ResolveIgnore returns the ignore patterns, each expanded to also cover
// its subtree. An explicit --ignore-path that cannot be read is an error;
// a missing default .parlintignore is not.
func (r *Resolver) ResolveIgnore(opts domain.RunOptions, handle *domain.ConfigHandle) ([]string, error) {
	var raw []string

	switch {
	case opts.IgnorePath != "":
		ps, err := r.readFile(opts.IgnorePath)
		if err != nil {
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}
		raw = append(raw, ps...)
	case handle != nil:
		ps, err := r.readFile(filepath.Join(handle.Dir, domain.DefaultIgnoreFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", domain.DefaultIgnoreFileName, err)
		}
		raw = append(raw, ps...)
	}

	if handle != nil {
		raw = append(raw, handle.Config.IgnorePatterns...)
		if handle.Config.RespectGitignore {
			ps, err := r.gitignorePatterns(handle.Dir)
			if err != nil {
				return nil, fmt.Errorf("reading .gitignore files: %w", err)
			}
			raw = append(raw, ps...)
		}
	}

	return Expand(raw), nil
}

// Expand adds a subtree variant for every pattern so that ignoring a
// directory also ignores everything beneath it.
func Expand(patterns []string) []string {
	out := make([]string, 0, len(patterns)*2)
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if strings.HasSuffix(p, "/**") {
			continue
		}
		out = append(out, strings.TrimSuffix(p, "/")+"/**")
	}
	return out
}

func (r *Resolver) readFile(name string) ([]string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	fs := r.fs(filepath.Dir(abs))
	f, err := fs.Open(filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseLines(f)
}

// gitignorePatterns rewrites the patterns of nested .gitignore files so
// they apply relative to dir, the way git scopes them.
func (r *Resolver) gitignorePatterns(dir string) ([]string, error) {
	fs := r.fs(dir)
	var out []string

	err := util.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != gitignoreFile {
			return nil
		}

		f, err := fs.Open(p)
		if err != nil {
			return err
		}
		lines, err := parseLines(f)
		f.Close()
		if err != nil {
			return err
		}

		rel := strings.Trim(path.Dir(filepath.ToSlash(p)), "/")
		for _, l := range lines {
			out = append(out, scope(rel, l))
		}
		return nil
	})
	return out, err
}

// scope prefixes a .gitignore pattern found in directory rel. Anchored
// patterns (containing a slash other than a trailing one) stay anchored
// to rel; the rest match at any depth below it.
func scope(rel, pattern string) string {
	if rel == "" || rel == "." {
		return pattern
	}
	neg := ""
	if strings.HasPrefix(pattern, "!") {
		neg, pattern = "!", pattern[1:]
	}
	if strings.Contains(strings.TrimSuffix(pattern, "/"), "/") {
		return neg + rel + "/" + strings.TrimPrefix(pattern, "/")
	}
	return neg + rel + "/**/" + pattern
}

// parseLines reads gitignore syntax: blank lines and # comments are skipped.
func parseLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
