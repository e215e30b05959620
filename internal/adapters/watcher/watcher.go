// Package watcher reports changes to the files of a bundle.
package watcher

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// It watches the directories that hold the bundled files, not whole trees.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu   sync.Mutex
	dirs map[string]bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		dirs:      make(map[string]bool),
	}, nil
}

// Start begins delivering events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	go w.processEvents(ctx)
	return nil
}

// Sync watches exactly the directories containing files.
// Directories no longer needed are released.
func (w *Watcher) Sync(files []string) error {
	want := make(map[string]bool, len(files))
	for _, f := range files {
		want[filepath.Dir(f)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if want[dir] {
			continue
		}
		// The directory may already be gone, which also ends the watch.
		_ = w.fsWatcher.Remove(dir)
		delete(w.dirs, dir)
	}

	for dir := range want {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "dir", dir)
		}
		w.dirs[dir] = true
	}
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
// The sequence ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// processEvents converts raw fsnotify events to ports.WatchEvent.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn(fmt.Sprintf("watcher: file system error: %v", err))
			}
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent.
// Attribute changes are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
