package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
)

// WatcherOptions configures a Watcher. Either path may be empty.
type WatcherOptions struct {
	ConfigPath  string
	ContentRoot string
	Debounce    time.Duration
	OnConfig    func(context.Context) error
	OnContent   func(context.Context) error
	Logger      *slog.Logger
}

// Watcher monitors the configuration file and the Markdown tree and runs
// the matching callback once a burst of changes has settled.
type Watcher struct {
	opts       WatcherOptions
	configPath string
	watcher    *fsnotify.Watcher
	logger     *slog.Logger

	mu             sync.Mutex
	timer          *time.Timer
	pendingConfig  bool
	pendingContent bool
	stopped        bool
	stopChan       chan struct{}
}

// NewWatcher creates a watcher. Nothing is watched until Start.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &Watcher{opts: opts, watcher: fw, logger: opts.Logger, stopChan: make(chan struct{})}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.opts.Debounce <= 0 {
		w.opts.Debounce = 500 * time.Millisecond
	}
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			_ = fw.Close()
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve config path").Build()
		}
		w.configPath = abs
	}
	return w, nil
}

// Start registers the watches and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory containing the config file; editors replace files
	// by rename, which drops a watch on the file itself.
	if w.configPath != "" {
		dir := filepath.Dir(w.configPath)
		if err := w.watcher.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch config directory").
				WithContext("path", dir).Build()
		}
	}
	if w.opts.ContentRoot != "" {
		if err := w.addTree(w.opts.ContentRoot); err != nil {
			return err
		}
	}
	w.logger.Info("Watching for changes",
		logfields.File(w.configPath),
		logfields.Path(w.opts.ContentRoot))

	go w.loop(ctx)
	return nil
}

// addTree watches dir and every non-hidden directory below it; fsnotify is
// not recursive.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch content directory").
			WithContext("path", dir).Build()
	}
	return nil
}

// Stop stops the watcher and cancels a pending callback.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.stopChan)
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Error closing file watcher", logfields.Error(err))
	}
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	switch {
	case w.configPath != "" && event.Name == w.configPath:
		if event.Op.Has(fsnotify.Remove) {
			w.logger.Warn("Config file removed", logfields.File(event.Name))
			return
		}
		w.trigger(ctx, true)
	case w.opts.ContentRoot != "" && w.isContent(event.Name):
		if event.Op.Has(fsnotify.Create) {
			if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
				}
			}
		}
		if strings.HasSuffix(event.Name, ".md") || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
			w.trigger(ctx, false)
		}
	}
}

func (w *Watcher) isContent(name string) bool {
	rel, err := filepath.Rel(w.opts.ContentRoot, name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// trigger schedules the callbacks, restarting the debounce window.
func (w *Watcher) trigger(ctx context.Context, config bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if config {
		w.pendingConfig = true
	} else {
		w.pendingContent = true
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	cfg, cnt := w.pendingConfig, w.pendingContent
	w.pendingConfig, w.pendingContent = false, false
	stopped := w.stopped
	w.mu.Unlock()
	if stopped || ctx.Err() != nil {
		return
	}

	if cfg && w.opts.OnConfig != nil {
		if err := w.opts.OnConfig(ctx); err != nil {
			w.logger.Error("Failed to reload configuration", logfields.Error(err))
		}
	}
	if cnt && w.opts.OnContent != nil {
		if err := w.opts.OnContent(ctx); err != nil {
			w.logger.Error("Failed to process content change", logfields.Error(err))
		}
	}
}
