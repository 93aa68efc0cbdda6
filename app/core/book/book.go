// Package book implements the keyed, insertion-ordered record collection used
// for both the address book and the notebook.
//
// A Book owns its records: every mutation goes through Add, Delete or Update so
// key uniqueness holds and each change is persisted. Records passed in are
// copied and records handed out are copies, so callers never alias the stored
// state. A Book is not safe for
// concurrent use.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pocketbook/pocketbook/app/core/paginator"
)

var (
	// ErrDuplicateKey is returned by Add when the key is already present.
	ErrDuplicateKey = errors.New("record already exists")
	// ErrNotFound is returned by Update when the key is absent.
	ErrNotFound = errors.New("record not found")
	// ErrPersist wraps every failure to write the book to its store.
	ErrPersist = errors.New("failed to save")
)

// Item is a record that can live in a Book.
type Item[R any] interface {
	Key() string
	Render() string
	Matches(query string) bool
	Clone() R
}

// Book is an ordered map from key to record.
type Book[R Item[R]] struct {
	name     string
	store    Store[R]
	index    map[string]int
	items    []R
	pageSize int
	logger   *slog.Logger
}

// Option configures a Book.
type Option func(*options)

type options struct {
	pageSize int
	logger   *slog.Logger
}

// WithPageSize sets the page size used by Iterate when none is given.
func WithPageSize(size int) Option {
	return func(o *options) {
		o.pageSize = size
	}
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an empty book backed by store. A nil store keeps the book in memory.
func New[R Item[R]](name string, store Store[R], opts ...Option) *Book[R] {
	o := &options{pageSize: paginator.DefaultPageSize}
	for _, opt := range opts {
		opt(o)
	}
	if o.pageSize <= 0 {
		o.pageSize = paginator.DefaultPageSize
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Book[R]{
		name:     name,
		store:    store,
		index:    make(map[string]int),
		pageSize: o.pageSize,
		logger:   o.logger.With("book", name),
	}
}

// Name returns the book's name.
func (b *Book[R]) Name() string {
	return b.name
}

// Len returns the number of records.
func (b *Book[R]) Len() int {
	return len(b.items)
}

// Get returns a copy of the record stored under key. Use Update to change it.
func (b *Book[R]) Get(key string) (R, bool) {
	i, ok := b.index[key]
	if !ok {
		var zero R
		return zero, false
	}
	return b.items[i].Clone(), true
}

// Add inserts a copy of r at the end of the book and persists. If persisting
// fails the insert is undone.
func (b *Book[R]) Add(ctx context.Context, r R) error {
	key := r.Key()
	r = r.Clone()
	if _, ok := b.index[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	b.index[key] = len(b.items)
	b.items = append(b.items, r)

	if err := b.Persist(ctx); err != nil {
		b.items = b.items[:len(b.items)-1]
		delete(b.index, key)
		return err
	}

	b.logger.DebugContext(ctx, "record added", "key", key)
	return nil
}

// Delete removes the record under key and returns it. The bool is false, and
// nothing is persisted, when the key is absent.
func (b *Book[R]) Delete(ctx context.Context, key string) (R, bool, error) {
	var zero R
	i, ok := b.index[key]
	if !ok {
		return zero, false, nil
	}

	removed := b.items[i]
	b.items = slices.Delete(b.items, i, i+1)
	delete(b.index, key)
	b.reindex(i)

	if err := b.Persist(ctx); err != nil {
		b.items = slices.Insert(b.items, i, removed)
		b.reindex(i)
		return zero, false, err
	}

	b.logger.DebugContext(ctx, "record deleted", "key", key)
	return removed, true, nil
}

// Update runs fn on the record under key and persists. If fn or persisting
// fails the record is restored to its state before fn ran.
func (b *Book[R]) Update(ctx context.Context, key string, fn func(R) error) error {
	i, ok := b.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	backup := b.items[i].Clone()
	if err := fn(b.items[i]); err != nil {
		b.items[i] = backup
		return err
	}
	if err := b.Persist(ctx); err != nil {
		b.items[i] = backup
		return err
	}

	b.logger.DebugContext(ctx, "record updated", "key", key)
	return nil
}

// Find returns every record matching query, in insertion order. The result is
// empty, never nil, when nothing matches.
func (b *Book[R]) Find(query string) []R {
	return b.Filter(func(r R) bool {
		return r.Matches(query)
	})
}

// Filter returns copies of every record for which keep is true, in insertion
// order.
func (b *Book[R]) Filter(keep func(R) bool) []R {
	out := make([]R, 0)
	for _, r := range b.items {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Snapshot returns copies of the records in insertion order.
func (b *Book[R]) Snapshot() []R {
	out := make([]R, 0, len(b.items))
	for _, r := range b.items {
		out = append(out, r.Clone())
	}
	return out
}

// Keys returns the keys in insertion order.
func (b *Book[R]) Keys() []string {
	keys := make([]string, 0, len(b.items))
	for _, r := range b.items {
		keys = append(keys, r.Key())
	}
	return keys
}

// Iterate returns a fresh paginator over a snapshot of the book. A
// non-positive pageSize uses the book's default.
func (b *Book[R]) Iterate(pageSize int) *paginator.Paginator {
	if pageSize <= 0 {
		pageSize = b.pageSize
	}
	return paginator.New(b.Snapshot(), pageSize)
}

// Persist writes the full book to the store. Write failures are returned.
func (b *Book[R]) Persist(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	if err := b.store.Save(ctx, b.items); err != nil {
		b.logger.ErrorContext(ctx, "failed to persist book", "error", err)
		return fmt.Errorf("%w %s: %w", ErrPersist, b.name, err)
	}
	return nil
}

// RestoreReport describes the outcome of Restore.
type RestoreReport struct {
	Loaded      int
	Absent      bool
	Quarantined string
	Skipped     []string
}

// Restore replaces the book's content with the persisted state.
//
// Absent state leaves the book empty. Corrupt state also leaves it empty and is
// reported, not returned, so the caller can warn the user. Any other read
// failure is returned and the book is left untouched.
func (b *Book[R]) Restore(ctx context.Context) (RestoreReport, error) {
	var report RestoreReport
	if b.store == nil {
		report.Absent = true
		return report, nil
	}

	loaded, err := b.store.Load(ctx)
	switch {
	case errors.Is(err, ErrStoreAbsent):
		b.reset(nil)
		report.Absent = true
		b.logger.InfoContext(ctx, "no persisted state, starting empty")
		return report, nil
	case errors.Is(err, ErrStoreCorrupt):
		b.reset(nil)
		var cErr *CorruptError
		if errors.As(err, &cErr) {
			report.Quarantined = cErr.Quarantined
		}
		b.logger.WarnContext(ctx, "persisted state is corrupt, starting empty", "error", err)
		return report, nil
	case err != nil:
		return report, fmt.Errorf("restore %s: %w", b.name, err)
	}

	kept := make([]R, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, r := range loaded {
		if seen[r.Key()] {
			report.Skipped = append(report.Skipped, r.Key())
			continue
		}
		seen[r.Key()] = true
		kept = append(kept, r)
	}
	if len(report.Skipped) > 0 {
		b.logger.WarnContext(ctx, "duplicate keys dropped while restoring", "keys", report.Skipped)
	}

	b.reset(kept)
	report.Loaded = len(kept)
	b.logger.InfoContext(ctx, "book restored", "records", report.Loaded)
	return report, nil
}

func (b *Book[R]) reset(items []R) {
	b.items = items
	b.index = make(map[string]int, len(items))
	b.reindex(0)
}

func (b *Book[R]) reindex(from int) {
	for i := from; i < len(b.items); i++ {
		b.index[b.items[i].Key()] = i
	}
}
