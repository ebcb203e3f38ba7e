package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the config file and calls onChange after it is modified,
// until ctx is cancelled. Events are debounced because editors and atomic
// saves emit several filesystem events per write. The parent directory is
// watched rather than the file itself so rename-based saves are caught.
func Watch(ctx context.Context, filename string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(filename)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case <-debounceCh:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(200 * time.Millisecond)
				debounceCh = debounce.C
			} else {
				debounce.Reset(200 * time.Millisecond)
			}

		case _, ok := <-w.Errors:
			if !ok {
				return nil
			}
		}
	}
}
