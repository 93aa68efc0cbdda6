package store

import (
	"fmt"
	"time"

	"github.com/pocketbook/pocketbook/app/core/record"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns records into entry payloads and back. Decode must re-validate
// every field so a tampered file cannot produce an invalid record.
type Codec[R any] interface {
	Kind() string
	Encode(r R) ([]byte, error)
	Decode(key string, data []byte) (R, error)
}

// Contact is the serialized form of a contact record. It is also the export
// and import format.
type Contact struct {
	Name     string   `msgpack:"name" json:"name" yaml:"name"`
	Phones   []string `msgpack:"phones,omitempty" json:"phones,omitempty" yaml:"phones,omitempty"`
	Birthday string   `msgpack:"birthday,omitempty" json:"birthday,omitempty" yaml:"birthday,omitempty"`
	Email    string   `msgpack:"email,omitempty" json:"email,omitempty" yaml:"email,omitempty"`
	Tags     []string `msgpack:"tags,omitempty" json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FromRecord captures r.
func FromRecord(r *record.Record) Contact {
	return Contact{
		Name:     r.Name(),
		Phones:   r.Phones(),
		Birthday: r.Birthday(),
		Email:    r.Email(),
		Tags:     r.Tags(),
	}
}

// Record rebuilds a validated record.
func (c Contact) Record() (*record.Record, error) {
	opts := make([]record.Option, 0, len(c.Phones)+3)
	for _, p := range c.Phones {
		opts = append(opts, record.WithPhone(p))
	}
	opts = append(opts,
		record.WithBirthday(c.Birthday),
		record.WithEmail(c.Email),
		record.WithTags(c.Tags...),
	)
	return record.New(c.Name, opts...)
}

// Note is the serialized form of a note.
type Note struct {
	ID        string    `msgpack:"id" json:"id" yaml:"id"`
	Text      string    `msgpack:"text" json:"text" yaml:"text"`
	Tags      []string  `msgpack:"tags,omitempty" json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at" yaml:"created_at"`
}

// FromNote captures n.
func FromNote(n *record.Note) Note {
	return Note{
		ID:        n.ID(),
		Text:      n.Text(),
		Tags:      n.Tags(),
		CreatedAt: n.CreatedAt(),
	}
}

// Note rebuilds a validated note.
func (n Note) Note() (*record.Note, error) {
	return record.RestoreNote(n.ID, n.Text, n.CreatedAt, n.Tags...)
}

// ContactCodec stores contacts keyed by name.
type ContactCodec struct{}

func (ContactCodec) Kind() string { return "contacts" }

func (ContactCodec) Encode(r *record.Record) ([]byte, error) {
	return msgpack.Marshal(FromRecord(r))
}

func (ContactCodec) Decode(key string, data []byte) (*record.Record, error) {
	var c Contact
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Name != key {
		return nil, fmt.Errorf("entry key %q does not match contact name %q", key, c.Name)
	}
	return c.Record()
}

// NoteCodec stores notes keyed by id.
type NoteCodec struct{}

func (NoteCodec) Kind() string { return "notes" }

func (NoteCodec) Encode(n *record.Note) ([]byte, error) {
	return msgpack.Marshal(FromNote(n))
}

func (NoteCodec) Decode(key string, data []byte) (*record.Note, error) {
	var n Note
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	if n.ID != key {
		return nil, fmt.Errorf("entry key %q does not match note id %q", key, n.ID)
	}
	return n.Note()
}
