package watcher

import (
	"context"

	"github.com/mvp-joe/tsdoc/internal/indexer"
)

// FileWatcher monitors source files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching source directories, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// Indexer is the part of *indexer.Indexer the coordinator drives.
type Indexer interface {
	// Index runs a full incremental pass over the project.
	Index(ctx context.Context) (*indexer.Stats, error)

	// IndexFiles re-checks only the given files.
	IndexFiles(ctx context.Context, paths []string) (*indexer.Stats, error)
}
