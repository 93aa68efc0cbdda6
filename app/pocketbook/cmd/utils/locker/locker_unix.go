//go:build unix

package locker

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

type posixLocker struct {
	file *os.File
}

func newPlatformLocker(path string) (Locker, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("posixLocker: open lock file: %w", err)
	}
	return &posixLocker{file: f}, nil
}

func (l *posixLocker) Lock() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	return nil
}

func (l *posixLocker) TryLock() error {
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrLocked
	}
	if err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	return nil
}

func (l *posixLocker) Unlock() error {
	defer l.file.Close()
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("failed to release file lock: %w", err)
	}
	return nil
}
