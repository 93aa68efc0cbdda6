package book

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStoreAbsent means nothing has been persisted yet.
	ErrStoreAbsent = errors.New("no persisted state")
	// ErrStoreCorrupt means persisted state exists but cannot be decoded.
	ErrStoreCorrupt = errors.New("persisted state is corrupt")
)

// Store persists a full snapshot of a book and reads it back.
//
// Load returns ErrStoreAbsent when there is nothing to read and an error
// matching ErrStoreCorrupt (usually a *CorruptError) when the data cannot be
// decoded. Any other error means the state exists but could not be read.
type Store[R any] interface {
	Save(ctx context.Context, snapshot []R) error
	Load(ctx context.Context) ([]R, error)
}

// CorruptError describes undecodable persisted state. Quarantined holds the
// path the damaged data was moved to, if the store moved it aside.
type CorruptError struct {
	Path        string
	Quarantined string
	Err         error
}

func (e *CorruptError) Error() string {
	if e.Quarantined != "" {
		return fmt.Sprintf("%s: %v (moved to %s)", e.Path, e.Err, e.Quarantined)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrStoreCorrupt
}
