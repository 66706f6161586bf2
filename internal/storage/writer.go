package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/tsdoc/internal/doc"
)

const nodeBatchSize = 500

// Writer writes extracted documentation to SQLite.
type Writer struct {
	db *sql.DB
}

// NewWriter creates a Writer instance.
// DB must have schema already created via CreateSchema().
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// ReplaceFile atomically replaces the stored documentation of one file.
// Previous nodes are removed through the files foreign key cascade.
func (w *Writer) ReplaceFile(fd *doc.FileDocs) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := sq.Delete("files").Where(sq.Eq{"file_path": fd.Path}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to delete previous docs for %s: %w", fd.Path, err)
	}

	_, err = sq.Insert("files").
		Columns("file_path", "file_hash", "node_count", "indexed_at").
		Values(fd.Path, fd.Hash, len(fd.Nodes), time.Now().UTC().Format(time.RFC3339)).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", fd.Path, err)
	}

	// Batch rows to stay under SQLite's bound parameter limit.
	for start := 0; start < len(fd.Nodes); start += nodeBatchSize {
		end := min(start+nodeBatchSize, len(fd.Nodes))
		insert := sq.Insert("doc_nodes").Columns(nodeColumns...)
		for i := start; i < end; i++ {
			values, err := nodeValues(fd.Path, &fd.Nodes[i])
			if err != nil {
				return err
			}
			insert = insert.Values(values...)
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to write doc nodes for %s: %w", fd.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", fd.Path, err)
	}
	return nil
}

// DeleteFiles removes files and their nodes. Unknown paths are ignored.
func (w *Writer) DeleteFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := sq.Delete("files").
		Where(sq.Eq{"file_path": paths}).
		RunWith(w.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete %d files: %w", len(paths), err)
	}
	return nil
}

// RecordRun stores a completed run and updates the last_indexed metadata.
func (w *Writer) RecordRun(run *IndexRun) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	finished := run.FinishedAt.UTC().Format(time.RFC3339)
	_, err = sq.Insert("index_runs").
		Columns("id", "started_at", "finished_at", "files_indexed", "files_removed", "nodes_written").
		Values(run.ID, run.StartedAt.UTC().Format(time.RFC3339), finished, run.FilesIndexed, run.FilesRemoved, run.NodesWritten).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}

	if err := setMetadata(tx, "last_indexed", finished); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// SetMetadata sets or updates a metadata key.
func (w *Writer) SetMetadata(key, value string) error {
	return setMetadata(w.db, key, value)
}

func setMetadata(runner sq.BaseRunner, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := sq.Insert("metadata").
		Columns("key", "value", "updated_at").
		Values(key, value, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		RunWith(runner).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}
