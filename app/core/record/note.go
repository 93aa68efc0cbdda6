package record

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbook/pocketbook/app/core/field"
)

// ErrEmptyID is returned when a note is restored without an id.
var ErrEmptyID = errors.New("note id cannot be empty")

// newID generates note keys. Tests replace it for deterministic ids.
var newID = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Note is a free-text entry keyed by a generated id. Build notes with NewNote
// or RestoreNote; a zero Note has no id and no text.
type Note struct {
	id        string
	text      field.Text
	tags      Tags
	createdAt time.Time
}

// NewNote creates a note with a fresh id.
func NewNote(text string, tags ...string) (*Note, error) {
	return RestoreNote(newID(), text, field.Now(), tags...)
}

// RestoreNote rebuilds a note with a known id, for example when loading from disk.
func RestoreNote(id, text string, createdAt time.Time, tags ...string) (*Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	t, err := field.NewText(text)
	if err != nil {
		return nil, err
	}
	n := &Note{id: id, text: *t, createdAt: createdAt}
	for _, tag := range tags {
		n.tags.Add(tag)
	}
	return n, nil
}

// Key returns the note's id.
func (n *Note) Key() string {
	return n.id
}

// ID returns the generated id.
func (n *Note) ID() string {
	return n.id
}

// Text returns the body.
func (n *Note) Text() string {
	return n.text.Value()
}

// Tags returns the tags in insertion order.
func (n *Note) Tags() []string {
	return n.tags.List()
}

// CreatedAt returns the creation time.
func (n *Note) CreatedAt() time.Time {
	return n.createdAt
}

// EditText replaces the body. The previous text is kept when the new one is empty.
func (n *Note) EditText(text string) error {
	t, err := field.NewText(text)
	if err != nil {
		return err
	}
	n.text = *t
	return nil
}

// AddTag adds a tag. Adding an existing tag is a no-op.
func (n *Note) AddTag(tag string) {
	n.tags.Add(tag)
}

// RemoveTag deletes a tag.
func (n *Note) RemoveTag(tag string) error {
	if !n.tags.Remove(tag) {
		return ErrTagNotFound
	}
	return nil
}

// HasTags reports whether the note carries any of tags, or all of them when all is set.
func (n *Note) HasTags(tags []string, all bool) bool {
	if len(tags) == 0 {
		return false
	}
	for _, t := range tags {
		has := n.tags.Has(t)
		if all && !has {
			return false
		}
		if !all && has {
			return true
		}
	}
	return all
}

// Matches reports whether query is a substring of the text or of any tag.
func (n *Note) Matches(query string) bool {
	return strings.Contains(n.text.Value(), query) || n.tags.Contains(query)
}

// Render returns the note header line followed by its text.
func (n *Note) Render() string {
	return "Note id: " + n.id + ", tags: " + n.tags.String() + "\n" + n.text.Value()
}

func (n *Note) String() string {
	return n.Render()
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	return &Note{
		id:        n.id,
		text:      n.text,
		tags:      n.tags.clone(),
		createdAt: n.createdAt,
	}
}
