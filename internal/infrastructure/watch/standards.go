// Package watch reloads quality standard overrides when their files change
// on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/workintel/workintel/pkg/domain/quality"
)

// ReloadFunc receives the full set of valid standard overrides after each
// change, in filename order.
type ReloadFunc func(overrides []*quality.StandardConfig)

// StandardsWatcher watches the standards directory and re-parses every
// override file after a change settles. Files that fail schema validation
// are skipped so one bad edit never drops the working set.
type StandardsWatcher struct {
	dir      string
	debounce time.Duration
	onReload ReloadFunc
	onError  func(path string, err error)

	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

func NewStandardsWatcher(dir string, debounce time.Duration, onReload ReloadFunc, onError func(string, error)) (*StandardsWatcher, error) {
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &StandardsWatcher{
		dir:      dir,
		debounce: debounce,
		onReload: onReload,
		onError:  onError,
		watcher:  w,
	}, nil
}

// Run loads the current overrides, then blocks watching for changes until
// the context is cancelled.
func (w *StandardsWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.reload()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isStandardFile(event.Name) {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// trigger resets the debounce timer. Rapid saves collapse into one reload.
func (w *StandardsWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *StandardsWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *StandardsWatcher) reload() {
	overrides, err := LoadStandardsDir(w.dir, w.onError)
	if err != nil {
		if w.onError != nil {
			w.onError(w.dir, err)
		}
		return
	}
	if w.onReload != nil {
		w.onReload(overrides)
	}
}

// LoadStandardsDir parses every standard override file in dir. Invalid
// files are reported through onError and skipped.
func LoadStandardsDir(dir string, onError func(string, error)) ([]*quality.StandardConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read standards directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && isStandardFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var overrides []*quality.StandardConfig
	for _, name := range names {
		path := filepath.Join(dir, name)
		// #nosec G304 -- Directory contents only
		data, err := os.ReadFile(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		cfg, err := quality.ParseStandardJSON(data)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		overrides = append(overrides, cfg)
	}

	return overrides, nil
}

func isStandardFile(path string) bool {
	return strings.HasSuffix(path, ".json")
}
