package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

// writeFile creates a file under root, making parent directories as needed.
func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func relPaths(docs []domain.Document) []string {
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.RelativePath)
	}
	return paths
}

func TestLoader_LoadFiles(t *testing.T) {
	content := []byte("package main\n\nfunc main() {}\n")

	t.Run("loads matching files with metadata", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "main.go", content)
		writeFile(t, root, "pkg/util/helper.py", content)

		docs, stats, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, 2, stats.Candidates)
		assert.Equal(t, 2, stats.Accepted)

		assert.Contains(t, relPaths(docs), "main.go")
		assert.Contains(t, relPaths(docs), "pkg/util/helper.py")

		for _, doc := range docs {
			assert.Equal(t, string(content), doc.Content)
			assert.Equal(t, filepath.Base(doc.RelativePath), doc.FileName)
			assert.Equal(t, filepath.Ext(doc.RelativePath), doc.Extension)
		}
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".hidden.go", content)
		writeFile(t, root, ".config/settings.go", content)
		writeFile(t, root, "visible.go", content)

		docs, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"visible.go"}, relPaths(docs))
	})

	t.Run("skips excluded directories", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "node_modules/lib/index.js", content)
		writeFile(t, root, "vendor/dep/dep.go", content)
		writeFile(t, root, "__pycache__/mod.py", content)
		writeFile(t, root, "src/app.ts", content)

		docs, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"src/app.ts"}, relPaths(docs))
	})

	t.Run("skips unlisted extensions", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "readme.md", content)
		writeFile(t, root, "data.json", content)
		writeFile(t, root, "code.go", content)

		docs, stats, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"code.go"}, relPaths(docs))
		assert.Equal(t, 3, stats.Candidates)
		assert.Equal(t, 1, stats.Accepted)
	})

	t.Run("skips files outside size bounds", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "tiny.go", []byte("x"))
		writeFile(t, root, "huge.go", []byte(strings.Repeat("a", DefaultMaxFileSize+1)))
		writeFile(t, root, "ok.go", content)

		docs, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ok.go"}, relPaths(docs))
	})

	t.Run("skips binary files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "blob.go", []byte{0xff, 0xfe, 0x00, 0x01, 0xff, 0xfe, 0x00, 0x01, 0xff, 0xfe, 0x00})
		writeFile(t, root, "text.go", content)

		docs, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"text.go"}, relPaths(docs))
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "c.go", content)
		writeFile(t, root, "a.go", content)
		writeFile(t, root, "b/nested.go", content)

		first, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		second, _, err := New(root).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, relPaths(first), relPaths(second))
	})
}

func TestLoader_LoadFiles_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, _, err := New(filepath.Join(t.TempDir(), "nope")).LoadFiles(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "afile.go", []byte("package a\n"))

		_, _, err := New(filepath.Join(root, "afile.go")).LoadFiles(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotADirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.go", []byte("package a\n"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := New(root).LoadFiles(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_Options(t *testing.T) {
	content := []byte("one two three four five\n")

	t.Run("custom extensions", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "notes.md", content)
		writeFile(t, root, "code.go", content)

		docs, _, err := New(root, WithExtensions([]string{"md"})).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"notes.md"}, relPaths(docs))
	})

	t.Run("custom skip dirs", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "generated/gen.go", content)
		writeFile(t, root, "src/app.go", content)

		docs, _, err := New(root, WithSkipDirs([]string{"generated"})).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"src/app.go"}, relPaths(docs))
	})

	t.Run("custom size bounds", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "small.go", []byte("ok\n"))

		docs, _, err := New(root, WithSizeBounds(0, 1024)).LoadFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"small.go"}, relPaths(docs))
	})
}
