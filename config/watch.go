package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/fsnotify/fsnotify"
)

// ReloadDelay is the quiet period after the last write before a changed manifest is reloaded.
// Editors commonly write a file in several steps.
const ReloadDelay = 100 * time.Millisecond

// Watch reloads the manifest at path whenever it changes on disk and passes the result to onChange.
// The parent directory is watched so that editors which replace the file with a rename are followed.
// The returned error only reports failure to start the watcher; later read and parse errors are passed to onChange.
// Watching stops when ctx is done.
//
// Parameters:
//   - ctx: controls the lifetime of the watcher
//   - path: the manifest path
//   - onChange: called with the freshly loaded, unresolved manifest or the load error
//
// Returns:
//   - error: an error if the watcher could not be created
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	reload := common.NewDebouncer(ReloadDelay, func() {
		cfg, err := Load(abs)
		onChange(cfg, err)
	})

	go func() {
		defer watcher.Close()
		defer reload.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					slog.Debug("manifest changed", "component", "config", "path", abs, "op", event.Op.String())
					reload.Trigger()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("manifest watcher error: "+err.Error(), "component", "config")
			}
		}
	}()

	return nil
}
