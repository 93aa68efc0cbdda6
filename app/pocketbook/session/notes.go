package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/paginator"
	"github.com/pocketbook/pocketbook/app/core/record"
)

// AddNote stores a new note and reports its generated id.
func (s *Session) AddNote(ctx context.Context, text string, tags []string) (string, error) {
	n, err := record.NewNote(text, tags...)
	if err != nil {
		return "", err
	}
	if err := s.notes.Add(ctx, n); err != nil {
		return "", err
	}
	return fmt.Sprintf("A note %s was successfully added!", n.ID()), nil
}

// DeleteNote removes a note by id.
func (s *Session) DeleteNote(ctx context.Context, id string) (string, error) {
	_, ok, err := s.notes.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return fmt.Sprintf("Note %s was successfully deleted!", id), nil
}

func (s *Session) updateNote(ctx context.Context, id string, fn func(*record.Note) error) error {
	return notFound(ErrNoteNotFound, id, s.notes.Update(ctx, id, fn))
}

// EditNote replaces a note's text.
func (s *Session) EditNote(ctx context.Context, id, text string) (string, error) {
	err := s.updateNote(ctx, id, func(n *record.Note) error {
		return n.EditText(text)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Note %s was successfully changed.", id), nil
}

// AddNoteTag tags a note.
func (s *Session) AddNoteTag(ctx context.Context, id, tag string) (string, error) {
	err := s.updateNote(ctx, id, func(n *record.Note) error {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: tag", ErrMissingArgument)
		}
		n.AddTag(tag)
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag %s was added to note %s", strings.TrimSpace(tag), id), nil
}

// DeleteNoteTag removes a tag from a note.
func (s *Session) DeleteNoteTag(ctx context.Context, id, tag string) (string, error) {
	err := s.updateNote(ctx, id, func(n *record.Note) error {
		return n.RemoveTag(tag)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag %s was removed from note %s", tag, id), nil
}

// FindNotes lists every note whose text or tags contain query.
func (s *Session) FindNotes(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: search text", ErrMissingArgument)
	}
	return renderNotes(s.notes.Find(query)), nil
}

// FindNotesByTags lists notes carrying any of tags, or all of them when all is
// set.
func (s *Session) FindNotesByTags(tags []string, all bool) (string, error) {
	if len(tags) == 0 {
		return "", fmt.Errorf("%w: tags", ErrMissingArgument)
	}
	return renderNotes(book.FindByTags(s.notes, tags, all)), nil
}

// ShowNotes starts a paginated listing of the notebook.
func (s *Session) ShowNotes(pageSize int) string {
	return s.startListing(s.notes.Iterate(pageSize), "The notebook is empty.")
}

// NotesPager returns a paginator over the notebook without touching the active
// listing.
func (s *Session) NotesPager(pageSize int) *paginator.Paginator {
	return s.notes.Iterate(pageSize)
}

// ContactsPager returns a paginator over the address book without touching the
// active listing.
func (s *Session) ContactsPager(pageSize int) *paginator.Paginator {
	return s.contacts.Iterate(pageSize)
}

func renderNotes(found []*record.Note) string {
	if len(found) == 0 {
		return "No notes found."
	}
	return renderAll(found)
}
