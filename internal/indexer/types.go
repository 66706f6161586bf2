package indexer

import (
	"time"
)

// Config configures an Indexer.
type Config struct {
	// RootDir is the project root; stored paths are relative to it.
	RootDir         string
	IncludePatterns []string
	IgnorePatterns  []string
	// Private documents non-exported declarations too.
	Private bool
	// Workers bounds the number of files processed concurrently.
	Workers int
	// CacheCapacity is the number of parsed files kept in memory.
	CacheCapacity int
}

// Stats summarizes an index run.
type Stats struct {
	RunID          string
	FilesAdded     int
	FilesModified  int
	FilesDeleted   int
	FilesUnchanged int
	FilesFailed    int
	NodesWritten   int
	IndexingTime   time.Duration

	// Written and Deleted list the root-relative paths changed in storage.
	Written  []string
	Deleted  []string
	Failures []*FileError
}

// FileError records a file that could not be documented.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }
