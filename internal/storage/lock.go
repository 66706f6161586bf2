package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the database write lock.
var ErrLocked = errors.New("database is locked by another indexer")

// WriteLock is an exclusive advisory lock next to a database file.
type WriteLock struct {
	lock *flock.Flock
}

// AcquireWriteLock takes the write lock for dbPath without blocking.
// Returns ErrLocked if another process already holds it.
func AcquireWriteLock(dbPath string) (*WriteLock, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(dbPath + ".lock")

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dbPath)
	}
	return &WriteLock{lock: lock}, nil
}

// Release releases the lock. It is safe to call more than once.
func (l *WriteLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
