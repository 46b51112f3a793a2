package agenda

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "eventflow/internal/log"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// Watch refreshes the agenda whenever the local sheet file changes. It
// watches the parent directory so atomic rename-on-save is caught too.
// The returned function stops the watcher.
func Watch(ctx context.Context, path string, l *Loader) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				appLog.Info("sheet file changed; reloading", "path", abs)
				_ = l.Refresh(ctx)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				appLog.Error("sheet watcher error", err, "path", abs)
			}
		}
	}()

	return w.Close, nil
}
