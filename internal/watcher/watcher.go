// Package watcher signals config file changes so the dashboard can reload
// its configuration without a restart.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches one file for writes
type Watcher struct {
	path     string
	debounce time.Duration
	log      zerolog.Logger
}

// New creates a watcher for the given file
func New(path string, log zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		debounce: defaultDebounce,
		log:      log.With().Str("component", "watcher").Logger(),
	}
}

// Watch blocks until the context is cancelled, invoking onChange (debounced)
// whenever the file is written or recreated. The parent directory is watched
// rather than the file itself so editor save-by-rename is caught too.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.log.Debug().Str("path", w.path).Msg("watching for changes")

	var debounce *time.Timer

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, func() {
				w.log.Info().Str("path", w.path).Msg("config file changed")
				onChange()
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return ctx.Err()
		}
	}
}
