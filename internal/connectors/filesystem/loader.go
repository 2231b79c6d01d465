// Package filesystem loads source files from a local repository tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/logger"
)

// Default file size bounds in bytes. Files outside this range are skipped:
// too small to be meaningful, too large to be a source file worth embedding.
const (
	DefaultMinFileSize = 10
	DefaultMaxFileSize = 100 * 1024
)

// defaultExtensions is the allow-list of source-code file extensions.
var defaultExtensions = map[string]struct{}{
	".py":   {},
	".js":   {},
	".jsx":  {},
	".ts":   {},
	".tsx":  {},
	".java": {},
	".go":   {},
	".rs":   {},
	".c":    {},
	".h":    {},
	".cpp":  {},
	".rb":   {},
}

// defaultSkipDirs are path components excluded during traversal:
// build artifacts, dependency caches and version-control internals.
var defaultSkipDirs = map[string]struct{}{
	"node_modules": {},
	"__pycache__":  {},
	".git":         {},
	"venv":         {},
	"env":          {},
	"dist":         {},
	"build":        {},
	".next":        {},
	"target":       {},
	"vendor":       {},
}

// Loader walks a repository tree and produces the documents eligible for
// chunking. Filtering is deterministic for a fixed tree; document order is
// filesystem traversal order.
type Loader struct {
	rootPath   string
	extensions map[string]struct{}
	skipDirs   map[string]struct{}
	minSize    int64
	maxSize    int64
}

// LoadStats reports traversal counts for diagnostics.
type LoadStats struct {
	// Candidates is the number of regular files encountered.
	Candidates int

	// Accepted is the number of documents that passed all filters.
	Accepted int
}

// Option configures the loader.
type Option func(*Loader)

// WithExtensions replaces the extension allow-list.
func WithExtensions(exts []string) Option {
	return func(l *Loader) {
		if len(exts) == 0 {
			return
		}
		l.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			l.extensions[e] = struct{}{}
		}
	}
}

// WithSkipDirs replaces the excluded-directory denylist.
func WithSkipDirs(dirs []string) Option {
	return func(l *Loader) {
		if len(dirs) == 0 {
			return
		}
		l.skipDirs = make(map[string]struct{}, len(dirs))
		for _, d := range dirs {
			l.skipDirs[d] = struct{}{}
		}
	}
}

// WithSizeBounds overrides the inclusive [min, max] byte-size filter.
func WithSizeBounds(minSize, maxSize int64) Option {
	return func(l *Loader) {
		if minSize >= 0 && maxSize >= minSize {
			l.minSize = minSize
			l.maxSize = maxSize
		}
	}
}

// New creates a loader rooted at rootPath.
func New(rootPath string, opts ...Option) *Loader {
	l := &Loader{
		rootPath:   rootPath,
		extensions: defaultExtensions,
		skipDirs:   defaultSkipDirs,
		minSize:    DefaultMinFileSize,
		maxSize:    DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFiles walks the tree under the root path and returns every document
// that passes the filters, in traversal order.
//
// It fails with domain.ErrNotFound when the root does not exist and
// domain.ErrNotADirectory when it is not a directory. Per-file skip
// conditions are never errors: unreadable or undecodable files are skipped
// and the traversal continues.
func (l *Loader) LoadFiles(ctx context.Context) ([]domain.Document, *LoadStats, error) {
	info, err := os.Stat(l.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("repository path %s: %w", l.rootPath, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("stat repository path: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("repository path %s: %w", l.rootPath, domain.ErrNotADirectory)
	}

	var docs []domain.Document
	stats := &LoadStats{}

	err = filepath.WalkDir(l.rootPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable directories are skipped, not fatal.
			logger.Warn("Cannot access %s: %v", path, walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		stats.Candidates++

		rel, err := filepath.Rel(l.rootPath, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if doc, ok := l.loadOne(path, rel, entry); ok {
			docs = append(docs, doc)
			stats.Accepted++
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking repository: %w", err)
	}

	logger.Info("Loaded %d files from %d candidates under %s", stats.Accepted, stats.Candidates, l.rootPath)
	return docs, stats, nil
}

// loadOne applies the per-file filters in order, short-circuiting on the
// first failure. A false return means the file was skipped.
func (l *Loader) loadOne(path, rel string, entry fs.DirEntry) (domain.Document, bool) {
	parts := strings.Split(rel, "/")

	// Hidden path components cover dotfile and version-control directories.
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return domain.Document{}, false
		}
	}

	for _, part := range parts {
		if _, skip := l.skipDirs[part]; skip {
			return domain.Document{}, false
		}
	}

	ext := filepath.Ext(rel)
	if _, ok := l.extensions[ext]; !ok {
		return domain.Document{}, false
	}

	info, err := entry.Info()
	if err != nil {
		logger.Warn("Cannot stat %s: %v", path, err)
		return domain.Document{}, false
	}
	if info.Size() < l.minSize || info.Size() > l.maxSize {
		return domain.Document{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Cannot read %s: %v", path, err)
		return domain.Document{}, false
	}

	// Binary files are skipped silently.
	if !utf8.Valid(data) {
		return domain.Document{}, false
	}

	return domain.Document{
		Content:      string(data),
		RelativePath: rel,
		FileName:     filepath.Base(rel),
		Extension:    ext,
	}, true
}
