package driven

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// FileLoader reads user-selected files into upload form.
type FileLoader interface {
	// Load reads the files at paths, preserving order and dropping duplicates.
	Load(ctx context.Context, paths []string) (*domain.FileSelection, error)
}

// FileEvent reports a change to a watched file.
type FileEvent struct {
	// Path is the absolute path of the changed file.
	Path string

	// Removed is true when the file was deleted or renamed away.
	Removed bool
}

// FileWatcher delivers change notifications for a set of files.
type FileWatcher interface {
	// Watch starts watching paths. Both channels are closed when ctx is cancelled.
	Watch(ctx context.Context, paths []string) (<-chan FileEvent, <-chan error, error)
}
