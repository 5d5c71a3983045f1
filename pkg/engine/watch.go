package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events (editors and git
// both write through temp-file renames) into one reload.
const watchDebounce = 100 * time.Millisecond

// WatchFile reloads the engine whenever the data file changes on disk —
// a manual edit or an out-of-band git pull. load fetches the current
// bytes (normally the persistence collaborator's Load). The watcher runs
// until ctx is canceled; decode failures are logged and the previous
// dataset stays live.
func (e *Engine) WatchFile(ctx context.Context, path string, load func(context.Context) ([]byte, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: atomic replaces swap the inode
	// and a watch on the old file goes quiet after the first save.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	base := filepath.Base(path)

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
					timerC = timer.C
				} else {
					timer.Reset(watchDebounce)
				}
			case <-timerC:
				timer = nil
				timerC = nil
				data, err := load(ctx)
				if err != nil {
					if e.logger != nil {
						e.logger.Warn("reload failed", "error", err)
					}
					continue
				}
				if err := e.Reload(data); err != nil {
					if e.logger != nil {
						e.logger.Warn("reload failed", "error", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if e.logger != nil {
					e.logger.Warn("watch error", "error", err)
				}
			}
		}
	}()
	return nil
}
