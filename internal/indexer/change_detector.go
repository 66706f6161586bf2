package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// HashSource returns the stored content hash of every indexed file.
type HashSource interface {
	FileHashes() (map[string]string, error)
}

// ChangeSet contains the result of change detection. All paths are
// root-relative and slash-separated.
type ChangeSet struct {
	Added     []string // New files not in DB
	Modified  []string // Files with different hash than DB
	Deleted   []string // Files in DB but not on disk
	Unchanged []string // Files with same hash
}

// ChangeDetector compares filesystem state to database state.
type ChangeDetector struct {
	rootDir   string
	hashes    HashSource
	discovery *FileDiscovery
}

// NewChangeDetector creates a new change detector.
func NewChangeDetector(rootDir string, hashes HashSource, discovery *FileDiscovery) *ChangeDetector {
	return &ChangeDetector{
		rootDir:   rootDir,
		hashes:    hashes,
		discovery: discovery,
	}
}

// DetectChanges compares disk to DB and returns files needing processing.
//
// Algorithm:
//  1. If hint is empty, discover all files; otherwise only check the hinted files
//  2. For each file on disk: not in DB → Added; hash differs → Modified; else Unchanged
//  3. Full discovery: files in DB that were not found → Deleted
//  4. Hint: hinted files that are gone or no longer match the patterns but
//     are in the DB → Deleted
func (cd *ChangeDetector) DetectChanges(ctx context.Context, hint []string) (*ChangeSet, error) {
	changes := &ChangeSet{
		Added:     []string{},
		Modified:  []string{},
		Deleted:   []string{},
		Unchanged: []string{},
	}

	dbHashes, err := cd.hashes.FileHashes()
	if err != nil {
		return nil, fmt.Errorf("failed to read files from database: %w", err)
	}

	var relativeFiles []string
	if len(hint) == 0 {
		files, err := cd.discovery.DiscoverFiles()
		if err != nil {
			return nil, fmt.Errorf("failed to discover files: %w", err)
		}
		for _, file := range files {
			rel, err := cd.discovery.RelPath(file)
			if err != nil {
				return nil, fmt.Errorf("failed to get relative path for %s: %w", file, err)
			}
			relativeFiles = append(relativeFiles, rel)
		}
	} else {
		seen := make(map[string]bool)
		for _, file := range hint {
			rel, err := cd.discovery.RelPath(file)
			if err != nil {
				return nil, fmt.Errorf("failed to get relative path for %s: %w", file, err)
			}
			if seen[rel] {
				continue
			}
			seen[rel] = true

			if !cd.discovery.Matches(rel) {
				if _, ok := dbHashes[rel]; ok {
					changes.Deleted = append(changes.Deleted, rel)
				}
				continue
			}
			relativeFiles = append(relativeFiles, rel)
		}
	}

	checked := make(map[string]bool, len(relativeFiles))
	for _, relPath := range relativeFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(cd.rootDir, filepath.FromSlash(relPath)))
		if os.IsNotExist(err) {
			continue
		}
		checked[relPath] = true

		dbHash, existsInDB := dbHashes[relPath]
		switch {
		case !existsInDB:
			changes.Added = append(changes.Added, relPath)
		case err != nil:
			// Unreadable: let the processor retry and report it
			log.Printf("Warning: failed to hash %s: %v\n", relPath, err)
			changes.Modified = append(changes.Modified, relPath)
		case dbHash != hashContent(data):
			changes.Modified = append(changes.Modified, relPath)
		default:
			changes.Unchanged = append(changes.Unchanged, relPath)
		}
	}

	if len(hint) == 0 {
		for path := range dbHashes {
			if !checked[path] {
				changes.Deleted = append(changes.Deleted, path)
			}
		}
	} else {
		for _, relPath := range relativeFiles {
			if _, ok := dbHashes[relPath]; ok && !checked[relPath] {
				changes.Deleted = append(changes.Deleted, relPath)
			}
		}
	}
	sort.Strings(changes.Deleted)

	return changes, nil
}
