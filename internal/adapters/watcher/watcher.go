// Package watcher implements recursive file system watching on fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directories that are never watched.
var skipDirectories = map[string]bool{
	".git":             true,
	".jj":              true,
	domain.KilnDirName: true,
	"node_modules":     true,
}

const eventChannelBuffer = 100

// Watcher watches directory trees and reports changes as ports.WatchEvent.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a new file system watcher. Watch errors are reported to log.
func NewWatcher(log ports.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	return &Watcher{
		fsWatcher: fw,
		logger:    log,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start watches every directory under roots. Events flow until ctx is done or Stop is called.
// A root that does not exist is skipped.
func (w *Watcher) Start(ctx context.Context, roots ...string) error {
	for _, root := range roots {
		for dir := range directories(root) {
			if err := w.fsWatcher.Add(dir); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", dir)
			}
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of file system events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields root and every directory below it that is not skipped.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

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

			if watchEvent.Operation == ports.OpCreate {
				w.addCreated(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

// addCreated starts watching a directory created after Start, including its subtree.
func (w *Watcher) addCreated(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skipDirectories[info.Name()] {
		return
	}
	for dir := range directories(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

// convertEvent maps an fsnotify event onto a ports.WatchEvent. Chmod-only events are dropped.
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
