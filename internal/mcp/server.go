// Package mcp exposes tsdoc over the Model Context Protocol.
package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsdoc/internal/config"
	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/indexer"
	"github.com/mvp-joe/tsdoc/internal/search"
	"github.com/mvp-joe/tsdoc/internal/storage"
	"github.com/mvp-joe/tsdoc/internal/watcher"
)

// ServerOptions configures NewMCPServer.
type ServerOptions struct {
	Version string
	// Watch keeps the index current while serving.
	Watch bool
}

// MCPServer manages the MCP server lifecycle.
//
// The server takes the database write lock when it can. With the lock it
// indexes the project on startup and, with Watch, keeps indexing changes.
// Without it another process owns the index and search is served from the
// database as it was at startup.
type MCPServer struct {
	rootDir     string
	db          *sql.DB
	lock        *storage.WriteLock
	reader      *storage.Reader
	indexer     *indexer.Indexer
	extractor   *indexer.Processor
	searcher    *search.Searcher
	files       watcher.FileWatcher
	coordinator *watcher.WatchCoordinator
	mcp         *server.MCPServer
}

// NewMCPServer opens the project index and registers the tsdoc tools.
func NewMCPServer(ctx context.Context, cfg *config.Config, rootDir string, opts ServerOptions) (_ *MCPServer, err error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	dbPath := cfg.DBPath(rootDir)
	s := &MCPServer{rootDir: rootDir}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.lock, err = storage.AcquireWriteLock(dbPath)
	switch {
	case errors.Is(err, storage.ErrLocked):
		log.Printf("Index is locked by another process, serving read-only")
		s.lock = nil
		if s.db, err = storage.OpenReadOnly(dbPath); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if s.db, err = storage.Open(dbPath); err != nil {
			return nil, err
		}
		if s.indexer, err = indexer.New(cfg.ToIndexerConfig(rootDir), s.db, nil); err != nil {
			return nil, err
		}
		stats, err := s.indexer.Index(ctx)
		if err != nil {
			return nil, fmt.Errorf("initial index failed: %w", err)
		}
		log.Printf("Indexed %d file(s), %d unchanged", len(stats.Written), stats.FilesUnchanged)
	}
	s.reader = storage.NewReader(s.db)

	nodes, err := s.reader.AllNodes()
	if err != nil {
		return nil, err
	}
	if s.searcher, err = search.NewSearcher(ctx, nodes); err != nil {
		return nil, fmt.Errorf("failed to create searcher: %w", err)
	}

	// Tool calls choose visibility per request
	s.extractor, err = indexer.NewProcessor(rootDir, doc.Options{Private: true}, cfg.Indexer.Workers, cfg.Cache.Capacity, nil)
	if err != nil {
		return nil, err
	}

	if opts.Watch && s.indexer != nil {
		if s.files, err = watcher.NewFileWatcher([]string{rootDir}, cfg.ToWatcherOptions()); err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.coordinator = watcher.NewWatchCoordinator(s.files, s.indexer, s.refresh)
	}

	s.mcp = server.NewMCPServer(
		"tsdoc",
		opts.Version,
		server.WithToolCapabilities(true),
	)
	AddVariablesTool(s.mcp, s.extractor, rootDir)
	AddSearchTool(s.mcp, s.searcher)

	return s, nil
}

// refresh brings the search index in line with a finished indexing run.
func (s *MCPServer) refresh(stats *indexer.Stats) {
	var nodes []doc.Node
	for _, path := range stats.Written {
		fileNodes, err := s.reader.NodesByFile(path)
		if err != nil {
			log.Printf("Warning: failed to reload %s: %v", path, err)
			continue
		}
		nodes = append(nodes, fileNodes...)
	}

	// Written files may have lost all of their nodes
	dropped := append(append([]string{}, stats.Deleted...), stats.Written...)
	if err := s.searcher.Update(context.Background(), nodes, dropped); err != nil {
		log.Printf("Warning: failed to update search index: %v", err)
	}
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.coordinator != nil {
		go func() {
			if err := s.coordinator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Warning: file watching stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources. It is safe on a partially built server.
func (s *MCPServer) Close() error {
	if s.files != nil {
		s.files.Stop()
	}
	if s.searcher != nil {
		s.searcher.Close()
	}
	if s.extractor != nil {
		s.extractor.Close()
	}
	if s.indexer != nil {
		s.indexer.Close()
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		s.lock.Release()
	}
	return err
}
