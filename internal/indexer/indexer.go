// Package indexer discovers source files, documents them and keeps the
// documentation database in sync with the project.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/storage"
)

// Indexer orchestrates change detection, processing and storage writes.
//
// The indexing flow:
//  1. Detect changes (read-only, no side effects)
//  2. Delete removed files (cascade deletes nodes via FK)
//  3. Process changed files (added + modified)
//  4. Write each documented file atomically
//  5. Record the run
type Indexer struct {
	rootDir   string
	writer    *storage.Writer
	detector  *ChangeDetector
	processor *Processor
	progress  ProgressReporter
}

// New creates an indexer writing to db, which must have the schema created.
func New(cfg Config, db *sql.DB, progress ProgressReporter) (*Indexer, error) {
	rootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	discovery, err := NewFileDiscovery(rootDir, cfg.IncludePatterns, cfg.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern: %w", err)
	}

	processor, err := NewProcessor(rootDir, doc.Options{Private: cfg.Private}, cfg.Workers, cfg.CacheCapacity, progress)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		rootDir:   rootDir,
		writer:    storage.NewWriter(db),
		detector:  NewChangeDetector(rootDir, storage.NewReader(db), discovery),
		processor: processor,
		progress:  progress,
	}, nil
}

// Index runs a full index of the project.
func (idx *Indexer) Index(ctx context.Context) (*Stats, error) {
	return idx.run(ctx, nil)
}

// IndexFiles re-indexes only the given files, absolute or root-relative.
// Files that no longer exist or no longer match the patterns are removed.
func (idx *Indexer) IndexFiles(ctx context.Context, paths []string) (*Stats, error) {
	if len(paths) == 0 {
		return &Stats{}, nil
	}
	return idx.run(ctx, paths)
}

func (idx *Indexer) run(ctx context.Context, hint []string) (*Stats, error) {
	startTime := time.Now()
	stats := &Stats{RunID: uuid.New().String()}

	idx.progress.OnDiscoveryStart()
	changes, err := idx.detector.DetectChanges(ctx, hint)
	if err != nil {
		return nil, fmt.Errorf("change detection failed: %w", err)
	}
	idx.progress.OnDiscoveryComplete(len(changes.Added) + len(changes.Modified) + len(changes.Unchanged))

	stats.FilesAdded = len(changes.Added)
	stats.FilesModified = len(changes.Modified)
	stats.FilesDeleted = len(changes.Deleted)
	stats.FilesUnchanged = len(changes.Unchanged)

	if len(changes.Deleted) > 0 {
		if err := idx.writer.DeleteFiles(changes.Deleted); err != nil {
			return nil, err
		}
		for _, path := range changes.Deleted {
			idx.processor.Invalidate(path)
		}
		stats.Deleted = changes.Deleted
		log.Printf("✓ Deleted %d files from DB\n", len(changes.Deleted))
	}

	toProcess := append(append([]string{}, changes.Added...), changes.Modified...)
	if len(toProcess) > 0 {
		log.Printf("Processing %d files (%d added, %d modified)\n",
			len(toProcess), len(changes.Added), len(changes.Modified))

		results, failures, err := idx.processor.ProcessFiles(ctx, toProcess)
		if err != nil {
			return nil, fmt.Errorf("processing failed: %w", err)
		}
		stats.FilesFailed = len(failures)
		stats.Failures = failures

		for _, fd := range results {
			if err := idx.writer.ReplaceFile(fd); err != nil {
				return nil, err
			}
			stats.NodesWritten += len(fd.Nodes)
			stats.Written = append(stats.Written, fd.Path)
		}
	}

	stats.IndexingTime = time.Since(startTime)

	err = idx.writer.RecordRun(&storage.IndexRun{
		ID:           stats.RunID,
		StartedAt:    startTime,
		FinishedAt:   startTime.Add(stats.IndexingTime),
		FilesIndexed: len(stats.Written),
		FilesRemoved: stats.FilesDeleted,
		NodesWritten: stats.NodesWritten,
	})
	if err != nil {
		return nil, err
	}

	idx.progress.OnComplete(stats)
	return stats, nil
}

// Processor returns the indexer's processor, which shares its parse cache.
func (idx *Indexer) Processor() *Processor {
	return idx.processor
}

// RootDir returns the absolute project root.
func (idx *Indexer) RootDir() string {
	return idx.rootDir
}

// Close releases the parse cache. The database is owned by the caller.
func (idx *Indexer) Close() {
	idx.processor.Close()
}
