package jsonrepo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Watcher interface {
	Watch(ctx context.Context) error
}

// fsnotifyWatcher reports changes to a single file. The parent directory is watched
// because the file itself is replaced by rename on every save.
type fsnotifyWatcher struct {
	watcher  *fsnotify.Watcher
	filename string
	onChange func()
	log      *zap.Logger
}

// NewFsnotifyWatcher creates a watcher for filename calling onChange on every event that touches it.
func NewFsnotifyWatcher(filename string, onChange func(), log *zap.Logger) (Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &fsnotifyWatcher{
		watcher:  fsWatcher,
		filename: filepath.Clean(filename),
		onChange: onChange,
		log:      log,
	}, nil
}

// Watch starts watching and returns once the watch is registered. It stops when ctx is done.
func (w *fsnotifyWatcher) Watch(ctx context.Context) error {
	dir := filepath.Dir(w.filename)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("failed to start watching data directory %s: %w", dir, err)
	}

	go func() {
		defer w.watcher.Close()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("stopping file watcher")
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}

				// temp files from our own saves share the directory
				if filepath.Clean(event.Name) != w.filename {
					continue
				}

				// only ops that change data
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					w.log.Debug("data file changed, invalidating cache", zap.String("file", event.Name), zap.String("op", event.Op.String()))
					w.onChange()
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Error("file watcher error", zap.Error(err))
			}
		}
	}()

	w.log.Info("watching data file", zap.String("file", w.filename))

	return nil
}

// Watch invalidates the repository cache whenever the backing file changes on disk.
func (r *JSONRepository) Watch(ctx context.Context) error {
	watcher, err := NewFsnotifyWatcher(r.filename, r.Invalidate, r.log)
	if err != nil {
		return err
	}

	return watcher.Watch(ctx)
}
