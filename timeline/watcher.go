package timeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/meysamhadeli/stepdiff/timeline/models"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads the script at path whenever it is written and hands the new sequence to onChange. The parent
// directory is watched so that editors replacing the file are followed. Reload failures are logged and the
// previous sequence stays in effect. Watch blocks until ctx is done.
//
// The loader's file system must be the OS file system.
func (l *Loader) Watch(ctx context.Context, path string, onChange func(models.StepSequence)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn().Err(err).Str("path", path).Msg("watch error")

		case <-debounce:
			debounce = nil
			steps, err := l.Load(abs)
			if err != nil {
				l.logger.Warn().Err(err).Str("path", path).Msg("reload failed, keeping previous steps")
				continue
			}
			l.logger.Info().Str("path", path).Int("steps", len(steps)).Msg("step script reloaded")
			onChange(steps)
		}
	}
}
