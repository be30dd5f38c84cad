package files

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/logfields"
)

// Watch numbers the tree under root into out, then again every time a file
// under root changes, until ctx is done. onRun, when not nil, receives the
// outcome of every run.
//
// out must not be inside root: writing the output would trigger another run.
func (n *Numberer) Watch(ctx context.Context, root, out string, onRun func(TreeReport, error)) error {
	absRoot, absOut, err := resolveWatchDirs(root, out)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	n.addDirsRecursive(watcher, absRoot)

	run := func() {
		report, err := n.NumberTree(ctx, absRoot, absOut)
		if onRun != nil {
			onRun(report, err)
		}
	}
	run()

	rebuild, trigger, stop := newDebouncer(n.debounce)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			n.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			n.logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuild:
			n.logger.Info("Change detected; renumbering", logfields.Path(absRoot))
			run()
		}
	}
}

func resolveWatchDirs(root, out string) (string, string, error) {
	if out == "" {
		return "", "", ferrors.ValidationError("watch mode requires an output directory").Build()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve directory").
			WithContext("path", root).
			Build()
	}
	if st, statErr := os.Stat(absRoot); statErr != nil || !st.IsDir() {
		return "", "", ferrors.NewError(ferrors.CategoryNotFound, "directory not found").
			WithContext("path", absRoot).
			Build()
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return "", "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve output directory").
			WithContext("path", out).
			Build()
	}
	if isWithin(absRoot, absOut) {
		return "", "", ferrors.ValidationError("output directory must be outside the watched directory").
			WithContext("root", absRoot).
			WithContext("out", absOut).
			Build()
	}
	return absRoot, absOut, nil
}

// isWithin reports whether path is root or lies below it. Both must be
// absolute and clean.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// newDebouncer returns a channel that receives once changes have been quiet
// for d, the trigger that (re)starts the timer, and a stop function.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return fire, trigger, stop
}

func (n *Numberer) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			n.addDirsRecursive(watcher, ev.Name)
		}
	}
	n.logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	trigger()
}

func (n *Numberer) addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			n.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports events for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case isHidden(base):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
