package filesystem

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codequery/codequery-cli/internal/logger"
)

// debounceWindow batches bursts of filesystem events into one notification.
const debounceWindow = 500 * time.Millisecond

// Watcher reports changes under a repository tree so callers can rebuild
// the collection. Events inside hidden or excluded directories are ignored.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher covering the loader's root and all of its
// non-excluded subdirectories.
func NewWatcher(loader *Loader) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{loader: loader, watcher: fw}
	if err := w.addRecursive(loader.rootPath); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Changes delivers one signal per debounced burst of relevant events.
// The channel is closed when ctx is cancelled.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.ignored(event.Name) {
					continue
				}
				// New directories must be watched as they appear.
				if event.Op.Has(fsnotify.Create) {
					if err := w.addRecursive(event.Name); err != nil {
						logger.Warn("Cannot watch %s: %v", event.Name, err)
					}
				}
				if timer == nil {
					timer = time.NewTimer(debounceWindow)
					timerC = timer.C
				} else {
					timer.Reset(debounceWindow)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			case <-timerC:
				timer = nil
				timerC = nil
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if w.ignored(path) && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// ignored reports whether a path falls inside a hidden or excluded
// directory relative to the loader root.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.loader.rootPath, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
		if _, skip := w.loader.skipDirs[part]; skip {
			return true
		}
	}
	return false
}
