package watcher

import (
	"context"
	"log"
	"sync"

	"github.com/mvp-joe/tsdoc/internal/indexer"
)

// WatchCoordinator routes FileWatcher events to the indexer.
type WatchCoordinator struct {
	files   FileWatcher
	indexer Indexer
	// onIndexed is told about every run that wrote or deleted something.
	onIndexed func(*indexer.Stats)

	mu sync.Mutex // serializes indexing runs
}

// NewWatchCoordinator creates a new watch coordinator. onIndexed may be nil.
func NewWatchCoordinator(files FileWatcher, idx Indexer, onIndexed func(*indexer.Stats)) *WatchCoordinator {
	return &WatchCoordinator{
		files:     files,
		indexer:   idx,
		onIndexed: onIndexed,
	}
}

// Start begins routing file changes to the indexer.
// Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, func(files []string) { c.handleFileChange(ctx, files) }); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

// Reindex runs a full index with the watcher paused. Changes seen while
// it runs are indexed as soon as it finishes.
func (c *WatchCoordinator) Reindex(ctx context.Context) (*indexer.Stats, error) {
	c.files.Pause()
	defer c.files.Resume()

	c.mu.Lock()
	defer c.mu.Unlock()

	stats, err := c.indexer.Index(ctx)
	if err != nil {
		return nil, err
	}
	c.notify(stats)
	return stats, nil
}

func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		log.Printf("Warning: file watcher stop failed: %v", err)
	}
}

// handleFileChange processes file change events from the file watcher.
func (c *WatchCoordinator) handleFileChange(ctx context.Context, files []string) {
	if len(files) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log.Printf("Processing %d file change(s)...", len(files))

	stats, err := c.indexer.IndexFiles(ctx, files)
	if err != nil {
		log.Printf("Error: indexing failed: %v", err)
		return
	}
	for _, f := range stats.Failures {
		log.Printf("Warning: %v", f)
	}

	log.Printf("✓ Indexed %d file(s), removed %d (%d nodes)",
		len(stats.Written), stats.FilesDeleted, stats.NodesWritten)
	c.notify(stats)
}

func (c *WatchCoordinator) notify(stats *indexer.Stats) {
	if c.onIndexed == nil || (len(stats.Written) == 0 && len(stats.Deleted) == 0) {
		return
	}
	c.onIndexed(stats)
}
