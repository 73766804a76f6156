package filesystem

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher delivers change events for selected files using fsnotify.
type Watcher struct{}

// NewWatcher creates a new filesystem watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch starts watching paths until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, paths []string) (<-chan driven.FileEvent, <-chan error, error) {
	selected := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		selected[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("Watching %s", dir)
	}

	events := make(chan driven.FileEvent)
	errs := make(chan error)

	go func() {
		defer close(events)
		defer close(errs)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				change, ok := handleFsEvent(ev, selected)
				if !ok {
					continue
				}
				select {
				case events <- change:
				case <-ctx.Done():
					return
				}

			case werr, ok := <-fsw.Errors:
				if !ok {
					return
				}
				select {
				case errs <- werr:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, errs, nil
}

// handleFsEvent converts an fsnotify event into a change for a selected file.
// Chmod events and files outside the selection, such as editor swap files,
// are dropped. A selected dotfile is reported like any other file.
func handleFsEvent(ev fsnotify.Event, selected map[string]bool) (driven.FileEvent, bool) {
	path := filepath.Clean(ev.Name)
	if !selected[path] {
		return driven.FileEvent{}, false
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return driven.FileEvent{Path: path, Removed: true}, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return driven.FileEvent{Path: path}, true
	default:
		return driven.FileEvent{}, false
	}
}
