package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is written to the metadata table when the schema is created.
const SchemaVersion = "1"

// CreateSchema creates all tables and indexes of the documentation database.
// Uses a transaction for atomicity - all schema creation succeeds or fails together.
//
// Schema includes:
//   - files: one row per indexed source file, keyed by relative path
//   - doc_nodes: one row per documented binding, cascading from files
//   - index_runs: history of index runs
//   - metadata: key/value bootstrap data (schema_version, last_indexed)
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"doc_nodes", createDocNodesTable},
		{"index_runs", createIndexRunsTable},
		{"metadata", createMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT OR IGNORE INTO metadata (key, value, updated_at) VALUES
			('schema_version', ?, ?),
			('last_indexed', '', ?)
	`
	if _, err := tx.Exec(bootstrapSQL, SchemaVersion, now, now); err != nil {
		return fmt.Errorf("failed to bootstrap metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// GetSchemaVersion retrieves the schema version from metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
    file_path TEXT PRIMARY KEY,                  -- Natural key: relative path from project root
    file_hash TEXT NOT NULL,                     -- SHA-256 for change detection
    node_count INTEGER NOT NULL DEFAULT 0,       -- Denormalized count of doc_nodes
    indexed_at TEXT NOT NULL                     -- ISO 8601 when this file was indexed
)
`

const createDocNodesTable = `
CREATE TABLE IF NOT EXISTS doc_nodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,        -- Insertion order is source order within a file
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,                          -- Bound name
    kind TEXT NOT NULL,                          -- Node kind (variable)
    declaration_kind TEXT NOT NULL,              -- export, private, declare
    decl_kind TEXT NOT NULL,                     -- var, let, const
    line INTEGER NOT NULL,                       -- 1-indexed
    col INTEGER NOT NULL,                        -- 0-indexed byte column
    byte_index INTEGER NOT NULL,                 -- 0-indexed byte offset of the declarator
    type_repr TEXT NOT NULL DEFAULT '',          -- Printed type, '' when unknown
    ts_type_json TEXT,                           -- JSON type definition (NULL when unknown)
    js_doc_json TEXT,                            -- JSON JSDoc (NULL when absent)
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createIndexRunsTable = `
CREATE TABLE IF NOT EXISTS index_runs (
    id TEXT PRIMARY KEY,                         -- UUID
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    files_indexed INTEGER NOT NULL DEFAULT 0,
    files_removed INTEGER NOT NULL DEFAULT 0,
    nodes_written INTEGER NOT NULL DEFAULT 0
)
`

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_doc_nodes_file_path ON doc_nodes(file_path)",
	"CREATE INDEX IF NOT EXISTS idx_doc_nodes_name ON doc_nodes(name)",
	"CREATE INDEX IF NOT EXISTS idx_index_runs_started_at ON index_runs(started_at)",
}
