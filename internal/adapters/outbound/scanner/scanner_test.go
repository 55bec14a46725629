package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parlint/parlint/internal/adapters/outbound/ignore"
	"github.com/parlint/parlint/internal/adapters/outbound/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0644))
	}
	return root
}

func rel(t *testing.T, root string, abs []string) []string {
	t.Helper()
	out := make([]string, 0, len(abs))
	for _, a := range abs {
		require.True(t, filepath.IsAbs(a), "%s should be absolute", a)
		r, err := filepath.Rel(root, a)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFileScanner_FiltersByExtension(t *testing.T) {
	root := tree(t, "main.go", "README.md", "web/app.JS", "web/types.d.ts", "pkg/util.go")

	got, err := scanner.New().ResolveTargets(root, "", []string{".go", ".js"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "pkg/util.go", "web/app.JS"}, rel(t, root, got))
}

func TestFileScanner_SortedAndAbsolute(t *testing.T) {
	root := tree(t, "z.go", "a.go", "m/b.go")

	got, err := scanner.New().ResolveTargets(root, "", []string{".go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "m/b.go", "z.go"}, rel(t, root, got))
}

func TestFileScanner_ExcludesVendorAndGit(t *testing.T) {
	root := tree(t, "a.go", "vendor/v.go", ".git/hooks/h.go", "node_modules/n/index.go")

	got, err := scanner.New().ResolveTargets(root, "", []string{".go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, rel(t, root, got))
}

func TestFileScanner_IgnorePatterns(t *testing.T) {
	root := tree(t,
		"a.go",
		"gen/api.go",
		"gen/deep/more.go",
		"pkg/x.pb.go",
		"pkg/x.go",
		"build/out.go",
	)
	patterns := ignore.Expand([]string{"gen", "*.pb.go", "build/"})

	got, err := scanner.New().ResolveTargets(root, "", []string{".go"}, patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "pkg/x.go"}, rel(t, root, got))
}

func TestFileScanner_NegatedPattern(t *testing.T) {
	root := tree(t, "gen/a.go", "gen/keep.go")

	got, err := scanner.New().ResolveTargets(root, "", []string{".go"}, []string{"gen/*.go", "!gen/keep.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gen/keep.go"}, rel(t, root, got))
}

func TestFileScanner_EmptyDirectory(t *testing.T) {
	root := t.TempDir()

	got, err := scanner.New().ResolveTargets(root, "", []string{".go"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileScanner_FileRoot(t *testing.T) {
	root := tree(t, "only.go", "README.md", "gen/zz_generated.go")
	patterns := ignore.Expand([]string{"gen/"})

	tests := []struct {
		name string
		file string
		want []string
	}{
		{"matching extension", "only.go", []string{"only.go"}},
		{"other extension", "README.md", nil},
		{"ignored file", "gen/zz_generated.go", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(root, filepath.FromSlash(tt.file))
			got, err := scanner.New().ResolveTargets(file, root, []string{".go"}, patterns)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, rel(t, root, got))
		})
	}
}

func TestFileScanner_PatternsRelativeToBase(t *testing.T) {
	base := tree(t,
		"sub/a.go",
		"sub/gen/broken.go",
		"sub/pkg/gen/deep.go",
		"other/gen/kept.go",
	)
	patterns := ignore.Expand([]string{"sub/**/gen/"})

	got, err := scanner.New().ResolveTargets(filepath.Join(base, "sub"), base, []string{".go"}, patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/a.go"}, rel(t, base, got))
}

func TestFileScanner_AnchoredPatternFromParentConfig(t *testing.T) {
	base := tree(t, "sub/a.go", "sub/gen/broken.go")
	patterns := ignore.Expand([]string{"sub/gen"})

	got, err := scanner.New().ResolveTargets(filepath.Join(base, "sub"), base, []string{".go"}, patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/a.go"}, rel(t, base, got))
}

func TestFileScanner_IgnoredRoot(t *testing.T) {
	base := tree(t, "gen/a.go")

	got, err := scanner.New().ResolveTargets(filepath.Join(base, "gen"), base, []string{".go"}, ignore.Expand([]string{"gen"}))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileScanner_RootOutsideBase(t *testing.T) {
	root := tree(t, "gen/a.go")

	got, err := scanner.New().ResolveTargets(root, t.TempDir(), []string{".go"}, ignore.Expand([]string{"gen"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"gen/a.go"}, rel(t, root, got), "patterns only apply below their base")
}

func TestFileScanner_MissingRoot(t *testing.T) {
	_, err := scanner.New().ResolveTargets(filepath.Join(t.TempDir(), "nope"), "", []string{".go"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading root")
}
