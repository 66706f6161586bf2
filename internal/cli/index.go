package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsdoc/internal/config"
	"github.com/mvp-joe/tsdoc/internal/indexer"
	"github.com/mvp-joe/tsdoc/internal/storage"
	"github.com/mvp-joe/tsdoc/internal/watcher"
)

var (
	quietFlag bool
	watchFlag bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project's variable documentation",
	Long: `Index documents every source file matched by the configured include
patterns and stores the result in .tsdoc/docs.db for 'tsdoc search' and
'tsdoc mcp'.

Indexing is incremental: files are re-documented only when their content
hash changes, and files that disappeared are removed.

Examples:
  # Index the current directory
  tsdoc index

  # Index with progress bars disabled
  tsdoc index --quiet

  # Watch for changes and reindex incrementally
  tsdoc index --watch
`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and reindex incrementally")
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nInterrupted! Cancelling indexing...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	session, err := openIndexSession(rootDir, cfg, NewCLIProgressReporter(quietFlag))
	if err != nil {
		return err
	}
	defer session.Close()

	if !watchFlag {
		stats, err := session.indexer.Index(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("indexing cancelled")
			}
			return fmt.Errorf("indexing failed: %w", err)
		}
		printFailures(stats)
		if quietFlag {
			fmt.Printf("Indexing complete: %d nodes in %.2fs\n", stats.NodesWritten, stats.IndexingTime.Seconds())
		}
		return nil
	}

	fw, err := watcher.NewFileWatcher([]string{rootDir}, cfg.ToWatcherOptions())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	coordinator := watcher.NewWatchCoordinator(fw, session.indexer, printFailures)

	done := make(chan error, 1)
	go func() { done <- coordinator.Start(ctx) }()

	if _, err := coordinator.Reindex(ctx); err != nil {
		cancel()
		<-done
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return fmt.Errorf("initial indexing failed: %w", err)
	}

	if !quietFlag {
		log.Println("Starting watch mode...")
		fmt.Println("Watching for changes (Ctrl+C to stop)")
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

// indexSession owns the write lock, database and indexer of one run.
type indexSession struct {
	lock    *storage.WriteLock
	db      *sql.DB
	indexer *indexer.Indexer
}

// openIndexSession takes the write lock and opens the project database.
func openIndexSession(rootDir string, cfg *config.Config, progress indexer.ProgressReporter) (*indexSession, error) {
	dbPath := cfg.DBPath(rootDir)

	lock, err := storage.AcquireWriteLock(dbPath)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, fmt.Errorf("another tsdoc process is indexing this project: %w", err)
		}
		return nil, err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		lock.Release()
		return nil, err
	}

	idx, err := indexer.New(cfg.ToIndexerConfig(rootDir), db, progress)
	if err != nil {
		db.Close()
		lock.Release()
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}

	return &indexSession{lock: lock, db: db, indexer: idx}, nil
}

// Close releases the session in reverse order of acquisition.
func (s *indexSession) Close() {
	s.indexer.Close()
	if err := s.db.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
	s.lock.Release()
}

// printFailures reports files that could not be documented.
func printFailures(stats *indexer.Stats) {
	for _, f := range stats.Failures {
		fmt.Fprintf(os.Stderr, "warning: %v\n", f)
	}
}
