package locker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("data directory is in use by another pocketbook process")

// Locker manages a file-based lock on a pocketbook data directory.
// It makes sure two CLI processes never write the same data files at once.
type Locker interface {
	// Lock acquires the lock, blocking until it is available.
	Lock() error

	// TryLock acquires the lock or fails with ErrLocked right away.
	TryLock() error

	// Unlock releases the lock and closes the lock file.
	Unlock() error
}

// New creates a locker on the file at path. The parent directory is created
// when missing.
func New(path string) (Locker, error) {
	if path == "" {
		return nil, errors.New("lock file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return newPlatformLocker(path)
}

// DeleteLockFile removes a stale lock file. It must not be called while a
// session holds the lock.
func DeleteLockFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete lock file at '%s': %w", path, err)
	}
	return nil
}
