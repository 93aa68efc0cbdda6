package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/chronicler"
	"github.com/pocketbook/pocketbook/app/core/store"
)

// Data is the export and import document.
type Data struct {
	Contacts []store.Contact `json:"contacts" yaml:"contacts"`
	Notes    []store.Note    `json:"notes" yaml:"notes"`
}

// Export captures both books in insertion order.
func (s *Session) Export() Data {
	data := Data{
		Contacts: make([]store.Contact, 0, s.contacts.Len()),
		Notes:    make([]store.Note, 0, s.notes.Len()),
	}
	for _, r := range s.contacts.Snapshot() {
		data.Contacts = append(data.Contacts, store.FromRecord(r))
	}
	for _, n := range s.notes.Snapshot() {
		data.Notes = append(data.Notes, store.FromNote(n))
	}
	return data
}

// ImportResult counts what Import did.
type ImportResult struct {
	Added    int
	Skipped  int
	Rejected []error
}

// Import adds every record of data that is valid and not already present.
// Duplicates are skipped, invalid records are collected in Rejected, and any
// write failure stops the import. progress, when set, is called once per item.
func (s *Session) Import(ctx context.Context, data Data, progress func()) (ImportResult, error) {
	var res ImportResult
	tick := func() {
		if progress != nil {
			progress()
		}
	}

	handle := func(label string, err error) error {
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, book.ErrDuplicateKey):
			res.Skipped++
		case errors.Is(err, book.ErrPersist):
			return err
		default:
			res.Rejected = append(res.Rejected, fmt.Errorf("%s: %w", label, err))
		}
		return nil
	}

	for _, c := range data.Contacts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := s.importContact(ctx, c)
		if err := handle("contact "+c.Name, err); err != nil {
			return res, err
		}
		tick()
	}
	for _, n := range data.Notes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := s.importNote(ctx, n)
		if err := handle("note "+n.ID, err); err != nil {
			return res, err
		}
		tick()
	}

	s.logger.InfoContext(ctx, "import finished",
		"added", res.Added, "skipped", res.Skipped, "rejected", len(res.Rejected))
	return res, nil
}

func (s *Session) importContact(ctx context.Context, c store.Contact) error {
	r, err := c.Record()
	if err != nil {
		return err
	}
	return s.contacts.Add(ctx, r)
}

func (s *Session) importNote(ctx context.Context, n store.Note) error {
	note, err := n.Note()
	if err != nil {
		return err
	}
	return s.notes.Add(ctx, note)
}

// Stats describes both data files.
type Stats struct {
	Contacts     int
	Notes        int
	ContactsFile *chronicler.Stats
	NotesFile    *chronicler.Stats
}

// Stats reads the block statistics of both data files. A file that has not
// been written yet has nil stats.
func (s *Session) Stats(ctx context.Context) (Stats, error) {
	out := Stats{Contacts: s.contacts.Len(), Notes: s.notes.Len()}

	cs, err := s.contactStore.Stats(ctx)
	switch {
	case err == nil:
		out.ContactsFile = &cs
	case !errors.Is(err, book.ErrStoreAbsent):
		return out, err
	}

	ns, err := s.noteStore.Stats(ctx)
	switch {
	case err == nil:
		out.NotesFile = &ns
	case !errors.Is(err, book.ErrStoreAbsent):
		return out, err
	}
	return out, nil
}
