// Package watcher keeps a document library in sync with directories on
// disk. It watches roots with fsnotify, debounces bursts of write events,
// and reports settled changes and removals through callbacks.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches directories and invokes callbacks when documents settle
// after a change or disappear.
type Watcher struct {
	roots     []string
	extSet    map[string]struct{} // lowercase, dot-stripped; empty = all
	recursive bool
	onChange  func(path string)
	onRemove  func(path string)
	debounce  time.Duration

	fsw       *fsnotify.Watcher
	mu        sync.Mutex
	pending   map[string]*time.Timer
	rootPaths map[string][]string // root -> directories registered for it
	done      chan struct{}
	started   bool
	stopOnce  sync.Once
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output (events, debounce firings, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides how long a path must stay quiet before onChange
// fires. Values <= 0 keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over the given root directories. onChange is
// called once a changed file has settled, onRemove when a file is deleted or
// renamed away. extensions filters which files are reported (empty = all).
func NewWatcher(roots []string, extensions []string, recursive bool, onChange, onRemove func(path string), opts ...Option) *Watcher {
	extSet := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		extSet[strings.TrimPrefix(strings.ToLower(e), ".")] = struct{}{}
	}
	w := &Watcher{
		roots:     roots,
		extSet:    extSet,
		recursive: recursive,
		onChange:  onChange,
		onRemove:  onRemove,
		debounce:  defaultDebounce,
		pending:   make(map[string]*time.Timer),
		rootPaths: make(map[string][]string),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers the roots and begins delivering events. It runs until ctx
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting",
			zap.Strings("roots", w.roots),
			zap.Bool("recursive", w.recursive))
	}
	for _, root := range w.roots {
		if err := w.addRootLocked(root); err != nil {
			_ = w.fsw.Close()
			w.fsw = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

// handleEvent routes one fsnotify event. Op is a bitmask, so membership is
// tested with Has rather than equality.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if !w.underRoot(path) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			w.watchNewDirectory(path)
			return
		}
		if w.watchedExtension(path) {
			w.debounceChange(path)
		}
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		// A rename leaves nothing at the old path, so both count as removal.
		w.cancelPending(path)
		if w.watchedExtension(path) && w.onRemove != nil {
			w.onRemove(path)
		}
	}
}

// watchNewDirectory registers a directory that appeared inside a watched
// root and reports the files already inside it.
func (w *Watcher) watchNewDirectory(dirPath string) {
	w.mu.Lock()
	recursive := w.recursive
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}

	if recursive {
		filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if err := fsw.Add(path); err != nil && w.logger != nil {
					w.logger.Debug("watcher failed to add directory", zap.String("path", path), zap.Error(err))
				}
			}
			return nil
		})
	} else if err := fsw.Add(dirPath); err != nil && w.logger != nil {
		w.logger.Debug("watcher failed to add directory", zap.String("path", dirPath), zap.Error(err))
	}

	w.scanDirectory(dirPath)
}

func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	clean := filepath.Clean(path)
	for _, root := range roots {
		rootClean := filepath.Clean(root)
		if rootClean == clean || inDir(rootClean, clean) {
			return true
		}
	}
	return false
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) watchedExtension(path string) bool {
	if len(w.extSet) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := w.extSet[ext]
	return ok
}

// debounceChange (re)arms the per-path timer; onChange fires only after the
// path has been quiet for the debounce window.
func (w *Watcher) debounceChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	t := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("watcher change settled", zap.String("path", path))
		}
		if w.onChange != nil {
			w.onChange(path)
		}
	})
	w.pending[path] = t
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// AddDirectory adds a root to watch. With scanExisting the files already in
// it are reported through onChange.
func (w *Watcher) AddDirectory(root string, scanExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	for _, r := range w.roots {
		if filepath.Clean(r) == filepath.Clean(abs) {
			return nil
		}
	}
	if err := w.addRootLocked(abs); err != nil {
		return err
	}
	w.roots = append(w.roots, abs)
	if w.logger != nil {
		w.logger.Debug("watcher root added", zap.String("path", abs), zap.Bool("scan_existing", scanExisting))
	}
	if scanExisting && w.onChange != nil {
		go w.scanDirectory(abs)
	}
	return nil
}

// addRootLocked registers root (and its subdirectories when recursive) with
// the fsnotify watcher, creating the directory if it does not exist yet.
func (w *Watcher) addRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	}
	var paths []string
	if w.recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.fsw.Add(path); err != nil {
				return err
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		paths = append(paths, root)
	}
	w.rootPaths[root] = paths
	return nil
}

// scanDirectory reports every matching file under root through onChange.
func (w *Watcher) scanDirectory(root string) {
	w.mu.Lock()
	onChange := w.onChange
	logger := w.logger
	w.mu.Unlock()
	if logger != nil {
		logger.Debug("watcher scanning directory", zap.String("root", root))
	}
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if w.watchedExtension(path) && onChange != nil {
			onChange(path)
		}
		return nil
	})
}

// RemoveDirectory stops watching the given root. Documents already opened
// from it stay open.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	idx := -1
	for i, r := range w.roots {
		if filepath.Clean(r) == abs {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for _, p := range w.rootPaths[abs] {
		_ = w.fsw.Remove(p)
	}
	delete(w.rootPaths, abs)
	w.roots = append(w.roots[:idx], w.roots[idx+1:]...)
	if w.logger != nil {
		w.logger.Debug("watcher root removed", zap.String("path", abs))
	}
	return nil
}

// Directories returns a copy of the currently watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// ScanExisting reports the matching files already present under every
// watched root. Call it after Start to pick up files that predate the
// watcher.
func (w *Watcher) ScanExisting() {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	for _, root := range roots {
		w.scanDirectory(root)
	}
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.fsw == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fsw.Close()
	w.fsw = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
