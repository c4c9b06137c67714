package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the reloaded configuration, or the error that
// prevented it from loading.
type ReloadFunc func(Config, error)

// Watch reloads the configuration file at path whenever it changes and
// passes the result to fn. It watches the parent directory so that editors
// that replace files atomically are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, fn ReloadFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, fmt.Errorf("watching %s: %w", abs, err))
		case <-timer.C:
			fn(Load(abs))
		}
	}
}
