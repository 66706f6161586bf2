package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/tsdoc/internal/doc"
)

// Reader reads stored documentation from SQLite.
type Reader struct {
	db *sql.DB
}

// NewReader creates a Reader instance.
// DB should have schema already created.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// FileHashes returns the stored hash of every indexed file, keyed by path.
func (r *Reader) FileHashes() (map[string]string, error) {
	rows, err := sq.Select("file_path", "file_hash").
		From("files").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query file hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan file hash: %w", err)
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// AllNodes returns every stored node ordered by file, then source order.
func (r *Reader) AllNodes() ([]doc.Node, error) {
	return r.queryNodes(sq.Select(nodeColumns...).From("doc_nodes"))
}

// NodesByName returns the nodes bound to name across all files.
func (r *Reader) NodesByName(name string) ([]doc.Node, error) {
	return r.queryNodes(sq.Select(nodeColumns...).From("doc_nodes").Where(sq.Eq{"name": name}))
}

// NodesByFile returns the nodes of one file in source order.
func (r *Reader) NodesByFile(path string) ([]doc.Node, error) {
	return r.queryNodes(sq.Select(nodeColumns...).From("doc_nodes").Where(sq.Eq{"file_path": path}))
}

func (r *Reader) queryNodes(query sq.SelectBuilder) ([]doc.Node, error) {
	rows, err := query.OrderBy("file_path", "id").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query doc nodes: %w", err)
	}
	defer rows.Close()

	nodes := []doc.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doc node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// LastRun returns the most recent index run, or (nil, nil) if none exists.
func (r *Reader) LastRun() (*IndexRun, error) {
	var (
		run               IndexRun
		started, finished string
	)
	err := sq.Select("id", "started_at", "finished_at", "files_indexed", "files_removed", "nodes_written").
		From("index_runs").
		OrderBy("finished_at DESC").
		Limit(1).
		RunWith(r.db).
		QueryRow().
		Scan(&run.ID, &started, &finished, &run.FilesIndexed, &run.FilesRemoved, &run.NodesWritten)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return &run, nil
}

// GetMetadata returns a metadata value, or "" when the key is not set.
func (r *Reader) GetMetadata(key string) (string, error) {
	var value string
	err := sq.Select("value").
		From("metadata").
		Where(sq.Eq{"key": key}).
		RunWith(r.db).
		QueryRow().
		Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata %s: %w", key, err)
	}
	return value, nil
}

// Counts returns the number of indexed files and documentation nodes.
func (r *Reader) Counts() (files, nodes int, err error) {
	if err := sq.Select("COUNT(*)").From("files").RunWith(r.db).QueryRow().Scan(&files); err != nil {
		return 0, 0, fmt.Errorf("failed to count files: %w", err)
	}
	if err := sq.Select("COUNT(*)").From("doc_nodes").RunWith(r.db).QueryRow().Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return files, nodes, nil
}
