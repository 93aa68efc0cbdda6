//go:build windows

package locker

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// windowsLocker uses Win32 LockFileEx/UnlockFileEx on a small file.
type windowsLocker struct {
	handle windows.Handle
}

func newPlatformLocker(path string) (Locker, error) {
	h, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("windowsLocker: CreateFile: %w", err)
	}
	return &windowsLocker{handle: h}, nil
}

func (l *windowsLocker) lock(flags uint32) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(l.handle, flags, 0, 1, 0, ol)
}

func (l *windowsLocker) Lock() error {
	if err := l.lock(windows.LOCKFILE_EXCLUSIVE_LOCK); err != nil {
		return fmt.Errorf("windowsLocker: LockFileEx: %w", err)
	}
	return nil
}

func (l *windowsLocker) TryLock() error {
	err := l.lock(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return ErrLocked
	}
	if err != nil {
		return fmt.Errorf("windowsLocker: LockFileEx: %w", err)
	}
	return nil
}

func (l *windowsLocker) Unlock() error {
	defer windows.CloseHandle(l.handle)
	ol := new(windows.Overlapped)
	if err := windows.UnlockFileEx(l.handle, 0, 1, 0, ol); err != nil {
		return fmt.Errorf("windowsLocker: UnlockFileEx: %w", err)
	}
	return nil
}
