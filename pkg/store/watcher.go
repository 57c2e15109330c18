package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDelay coalesces the burst of events an editor produces on save
const DefaultWatchDelay = 150 * time.Millisecond

// Watch calls onChange, from a background goroutine, whenever the settings
// file is changed by something other than this store. Unreadable intermediate
// states are skipped. Watch returns once the watcher is running; it stops
// when ctx is done.
func (s *SettingsStore) Watch(ctx context.Context, delay time.Duration, onChange func(models.Settings)) error {
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &PersistenceError{Op: "watch", Path: s.path, Err: err}
	}
	// The directory is watched because atomic saves replace the file
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return &PersistenceError{Op: "watch", Path: s.path, Err: err}
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		settings, err := s.read()
		if err != nil {
			log.Debug().Err(err).Str("path", s.path).Msg("settings file not readable yet")
			return
		}
		if !s.changed(settings) {
			return
		}
		s.remember(settings)
		log.Info().Str("path", s.path).Msg("settings changed on disk")
		onChange(settings)
	}

	go func() {
		defer w.Close()
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(delay, reload)
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("path", s.path).Msg("settings watcher error")
			}
		}
	}()

	return nil
}
