package record

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pocketbook/pocketbook/app/core/field"
)

// Record is a single contact. The name is its key in an address book and never
// changes after construction. Build records with New; a zero Record has an
// empty name and renders as an empty contact.
type Record struct {
	name     field.Name
	phones   []*field.Phone
	birthday field.Birthday
	email    field.Email
	tags     Tags
}

// Option sets an optional attribute while building a Record.
type Option func(*Record) error

// WithPhone adds an initial phone. Empty values are ignored.
func WithPhone(phone string) Option {
	return func(r *Record) error {
		return r.AddPhone(phone)
	}
}

// WithBirthday sets the initial birthday. Empty values are ignored.
func WithBirthday(birthday string) Option {
	return func(r *Record) error {
		return r.AddBirthday(birthday)
	}
}

// WithEmail sets the initial email. Empty values are ignored.
func WithEmail(email string) Option {
	return func(r *Record) error {
		return r.AddEmail(email)
	}
}

// WithTags adds initial tags.
func WithTags(tags ...string) Option {
	return func(r *Record) error {
		for _, t := range tags {
			r.tags.Add(t)
		}
		return nil
	}
}

// New builds a Record. The name is mandatory; every option is validated and the
// first failure aborts construction.
func New(name string, opts ...Option) (*Record, error) {
	n, err := field.NewName(name)
	if err != nil {
		return nil, err
	}
	r := &Record{name: *n}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NameKey returns the key a contact called name is stored under. Names are
// trimmed on construction, so lookups must be trimmed the same way.
func NameKey(name string) string {
	return strings.TrimSpace(name)
}

// Key returns the record's name.
func (r *Record) Key() string {
	return r.name.Value()
}

// Name returns the name field.
func (r *Record) Name() string {
	return r.name.Value()
}

// Phones returns the phone values in order.
func (r *Record) Phones() []string {
	out := make([]string, 0, len(r.phones))
	for _, p := range r.phones {
		out = append(out, p.Value())
	}
	return out
}

// Birthday returns the birthday in DD.MM.YYYY form, or "" when unset.
func (r *Record) Birthday() string {
	return r.birthday.String()
}

// Email returns the email, or "" when unset.
func (r *Record) Email() string {
	return r.email.String()
}

// Tags returns the tags in insertion order.
func (r *Record) Tags() []string {
	return r.tags.List()
}

// AddPhone validates and appends a phone. Empty input is a no-op; a value the
// record already has is rejected with ErrPhoneExists.
func (r *Record) AddPhone(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	p, err := field.NewPhone(value)
	if err != nil {
		return err
	}
	if _, ok := r.FindPhone(p.Value(), true); ok {
		return fmt.Errorf("%w: %s", ErrPhoneExists, value)
	}
	r.phones = append(r.phones, p)
	return nil
}

// FindPhone returns the first phone equal to value (strict) or containing it
// (non-strict). The bool is false when nothing matches.
func (r *Record) FindPhone(value string, strict bool) (*field.Phone, bool) {
	for _, p := range r.phones {
		if strict && p.Value() == value {
			return p, true
		}
		if !strict && strings.Contains(p.Value(), value) {
			return p, true
		}
	}
	return nil, false
}

// RemovePhone deletes the phone equal to value.
func (r *Record) RemovePhone(value string) error {
	p, ok := r.FindPhone(value, true)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPhoneNotFound, value)
	}
	i := slices.Index(r.phones, p)
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces old with new in place, keeping the phone's position.
func (r *Record) EditPhone(old, replacement string) error {
	p, ok := r.FindPhone(old, true)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPhoneNotFound, old)
	}
	if other, ok := r.FindPhone(replacement, true); ok && other != p {
		return fmt.Errorf("%w: %s", ErrPhoneExists, replacement)
	}
	return p.Set(replacement)
}

// AddBirthday sets the birthday. Empty input is ignored, so a birthday can be
// replaced but never cleared.
func (r *Record) AddBirthday(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	b, err := field.NewBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = *b
	return nil
}

// AddEmail sets the email. Empty input is ignored.
func (r *Record) AddEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	e, err := field.NewEmail(value)
	if err != nil {
		return err
	}
	r.email = *e
	return nil
}

// AddTag adds a tag. Adding an existing tag is a no-op.
func (r *Record) AddTag(tag string) {
	r.tags.Add(tag)
}

// RemoveTag deletes a tag.
func (r *Record) RemoveTag(tag string) error {
	if !r.tags.Remove(tag) {
		return fmt.Errorf("%w: %s", ErrTagNotFound, tag)
	}
	return nil
}

// DaysToBirthday returns the number of days from now until the next occurrence
// of the birthday. It returns false when no birthday is set. A 29 February
// birthday falls on 28 February in non-leap years.
func (r *Record) DaysToBirthday(now time.Time) (int, bool) {
	if !r.birthday.IsSet() {
		return 0, false
	}
	b := r.birthday.Value()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	next := anniversary(b, now.Year())
	if next.Before(today) {
		next = anniversary(b, now.Year()+1)
	}
	return int(next.Sub(today).Hours() / 24), true
}

func anniversary(b time.Time, year int) time.Time {
	day := b.Day()
	if b.Month() == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, b.Month(), day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Render returns the canonical single-line summary of the contact.
func (r *Record) Render() string {
	var sb strings.Builder
	sb.WriteString("Contact name: ")
	sb.WriteString(r.name.Value())
	sb.WriteString(", phones: ")
	sb.WriteString(strings.Join(r.Phones(), "; "))
	sb.WriteString(", birthday: ")
	sb.WriteString(r.birthday.String())
	sb.WriteString(", email: ")
	sb.WriteString(r.email.String())
	if r.tags.Len() > 0 {
		sb.WriteString(", tags: ")
		sb.WriteString(r.tags.String())
	}
	return sb.String()
}

func (r *Record) String() string {
	return r.Render()
}

// Matches reports whether query is a substring of the name, a phone, the email
// or the rendered birthday. Matching is case-sensitive.
func (r *Record) Matches(query string) bool {
	if strings.Contains(r.name.Value(), query) {
		return true
	}
	if _, ok := r.FindPhone(query, false); ok {
		return true
	}
	if r.email.IsSet() && strings.Contains(r.email.String(), query) {
		return true
	}
	return r.birthday.IsSet() && strings.Contains(r.birthday.String(), query)
}

// Clone returns a deep copy that shares no mutable state with r.
func (r *Record) Clone() *Record {
	phones := make([]*field.Phone, 0, len(r.phones))
	for _, p := range r.phones {
		cp := *p
		phones = append(phones, &cp)
	}

	return &Record{
		name:     r.name,
		phones:   phones,
		birthday: r.birthday,
		email:    r.email,
		tags:     r.tags.clone(),
	}
}
