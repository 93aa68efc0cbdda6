// Package session ties the address book and the notebook to their data files
// for the lifetime of one pocketbook process.
//
// Every operation returns the text shown to the user or an error; callers
// decide how errors are worded (see router.Describe).
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/field"
	"github.com/pocketbook/pocketbook/app/core/paginator"
	"github.com/pocketbook/pocketbook/app/core/record"
	"github.com/pocketbook/pocketbook/app/core/settings"
	"github.com/pocketbook/pocketbook/app/core/store"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/locker"
)

// NoMorePages is returned by Next once the active listing is exhausted.
const NoMorePages = "No more pages."

var (
	// ErrNoActivePage is returned by Next when no listing has been started.
	ErrNoActivePage = errors.New("no active listing")
	// ErrMissingArgument is returned when a required value was left empty.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidArgument is returned for values outside the accepted range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrContactNotFound and ErrNoteNotFound both match book.ErrNotFound.
	ErrContactNotFound = fmt.Errorf("contact %w", book.ErrNotFound)
	ErrNoteNotFound    = fmt.Errorf("note %w", book.ErrNotFound)
)

// Session owns the books, the data directory lock and the active paginator.
type Session struct {
	settings *settings.Settings
	logger   *slog.Logger
	lock     locker.Locker

	contactStore *store.BlockStore[*record.Record]
	noteStore    *store.BlockStore[*record.Note]
	contacts     *book.Contacts
	notes        *book.Notes

	active   *paginator.Paginator
	warnings []string
	now      func() time.Time
}

// Open locks the data directory and restores both books.
func Open(ctx context.Context, cfg *settings.Settings, logger *slog.Logger) (*Session, error) {
	lock, err := locker.New(cfg.LockPath())
	if err != nil {
		return nil, err
	}
	if err := lock.TryLock(); err != nil {
		return nil, err
	}

	s := &Session{
		settings: cfg,
		logger:   logger,
		lock:     lock,
		now:      func() time.Time { return field.Now() },
	}

	storeOpts := []store.Option{
		store.WithCompression(cfg.Compression),
		store.WithMaxBlockSize(cfg.MaxBlockSize),
		store.WithLogger(logger),
	}
	bookOpts := []book.Option{
		book.WithPageSize(cfg.PageSize),
		book.WithLogger(logger),
	}

	s.contactStore = store.New[*record.Record](cfg.ContactsPath(), store.ContactCodec{}, storeOpts...)
	s.noteStore = store.New[*record.Note](cfg.NotesPath(), store.NoteCodec{}, storeOpts...)
	s.contacts = book.New[*record.Record]("contacts", s.contactStore, bookOpts...)
	s.notes = book.New[*record.Note]("notes", s.noteStore, bookOpts...)

	for _, restore := range []struct {
		name string
		fn   func(context.Context) (book.RestoreReport, error)
	}{
		{"contacts", s.contacts.Restore},
		{"notes", s.notes.Restore},
	} {
		report, err := restore.fn(ctx)
		if err != nil {
			_ = lock.Unlock()
			return nil, err
		}
		s.collectWarnings(restore.name, report)
	}

	logger.InfoContext(ctx, "session opened",
		"root", cfg.RootPath,
		"contacts", s.contacts.Len(),
		"notes", s.notes.Len())
	return s, nil
}

func (s *Session) collectWarnings(name string, report book.RestoreReport) {
	if report.Quarantined != "" {
		s.warnings = append(s.warnings, fmt.Sprintf(
			"The %s file was damaged and has been moved to %s. Starting with an empty %s list.",
			name, report.Quarantined, name))
	}
	if len(report.Skipped) > 0 {
		s.warnings = append(s.warnings, fmt.Sprintf(
			"%d duplicate %s entries were ignored while loading.", len(report.Skipped), name))
	}
}

// Close releases the data directory lock. Data is already persisted after
// every change.
func (s *Session) Close() error {
	if s.lock == nil {
		return nil
	}
	err := s.lock.Unlock()
	s.lock = nil
	s.logger.Info("session closed")
	return err
}

// Warnings returns problems found while opening, for display to the user.
func (s *Session) Warnings() []string {
	return s.warnings
}

// Settings returns the configuration the session was opened with.
func (s *Session) Settings() *settings.Settings {
	return s.settings
}

// Contacts returns the address book.
func (s *Session) Contacts() *book.Contacts {
	return s.contacts
}

// Notes returns the notebook.
func (s *Session) Notes() *book.Notes {
	return s.notes
}

// Hello greets the user.
func (s *Session) Hello() string {
	return "Hi, what can I help you?"
}

// Next renders the next page of the active listing.
func (s *Session) Next() (string, error) {
	if s.active == nil {
		return "", ErrNoActivePage
	}
	page, err := s.active.Next()
	if errors.Is(err, paginator.ErrEndOfSequence) {
		return NoMorePages, nil
	}
	return page, err
}

// HasNext reports whether the active listing has more pages.
func (s *Session) HasNext() bool {
	return s.active != nil && s.active.HasNext()
}

// notFound rewraps a missing key as the kind-specific error.
func notFound(kind error, key string, err error) error {
	if errors.Is(err, book.ErrNotFound) {
		return fmt.Errorf("%w: %s", kind, key)
	}
	return err
}

// startListing replaces the active paginator and renders its first page.
func (s *Session) startListing(p *paginator.Paginator, empty string) string {
	s.active = p
	page, err := p.Next()
	if err != nil {
		return empty
	}
	return page
}
