// Package watch re-runs a conversion whenever its source file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/FarzamTP/TRACO-HexBug/internal/monitoring"
	"github.com/FarzamTP/TRACO-HexBug/internal/timeutil"
)

// DefaultDebounce is how long a source must stay quiet before fn runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a function after writes to a single file settle.
type Watcher struct {
	Debounce time.Duration
	Clock    timeutil.Clock
}

// New returns a Watcher with DefaultDebounce on the real clock.
func New() *Watcher {
	return &Watcher{Debounce: DefaultDebounce, Clock: timeutil.RealClock{}}
}

// Run watches the directory holding src and calls fn once src has seen no
// write or create event for the debounce period. Editors that replace the
// file on save are covered because the directory is watched, not the file.
// fn runs on the watch goroutine, so calls never overlap; its errors are
// logged and watching continues. Run returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, src string, fn func(context.Context) error) error {
	absPath, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("watch %q: %w", src, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch dir %q: %w", filepath.Dir(absPath), err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	clock := w.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	var timer timeutil.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	monitoring.Logf("Watching %s", absPath)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != absPath {
				continue
			}
			if timer == nil {
				timer = clock.NewTimer(debounce)
			} else {
				timer.Stop()
				timer.Reset(debounce)
			}
			fire = timer.C()

		case <-fire:
			fire = nil
			monitoring.Logf("File changed: %s", absPath)
			if err := fn(ctx); err != nil {
				monitoring.Logf("Conversion failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			monitoring.Logf("watch error: %v", err)
		}
	}
}
