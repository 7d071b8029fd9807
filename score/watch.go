package score

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"go-mutwo/debug"
)

// DefaultDebounce batches the writes of a single save.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with the reloaded document whenever the file at
// path is written, until ctx is done. The directory is watched so that
// editors replacing the file are noticed too.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(*Document, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	debug.Log("score", "watching %s", abs)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debug.Log("score", "%s: %s", ev.Op, ev.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warn("score", "watch %s: %v", abs, err)

		case <-timer.C:
			onChange(Load(abs))
		}
	}
}
