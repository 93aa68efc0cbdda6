package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/paginator"
	"github.com/pocketbook/pocketbook/app/core/record"
)

// ContactInput carries the attributes of a new contact. Empty values are
// skipped.
type ContactInput struct {
	Name     string
	Phones   []string
	Birthday string
	Email    string
	Tags     []string
}

// AddContact validates and stores a new contact.
func (s *Session) AddContact(ctx context.Context, in ContactInput) (string, error) {
	opts := make([]record.Option, 0, len(in.Phones)+3)
	for _, p := range in.Phones {
		opts = append(opts, record.WithPhone(p))
	}
	opts = append(opts,
		record.WithBirthday(in.Birthday),
		record.WithEmail(in.Email),
		record.WithTags(in.Tags...),
	)

	r, err := record.New(in.Name, opts...)
	if err != nil {
		return "", err
	}
	if err := s.contacts.Add(ctx, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("A contact %s was successfully added!", r.Name()), nil
}

// DeleteContact removes a contact by name.
func (s *Session) DeleteContact(ctx context.Context, name string) (string, error) {
	name = record.NameKey(name)
	_, ok, err := s.contacts.Delete(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrContactNotFound, name)
	}
	return fmt.Sprintf("Contact %s was successfully deleted!", name), nil
}

func (s *Session) updateContact(ctx context.Context, name string, fn func(*record.Record) error) error {
	name = record.NameKey(name)
	return notFound(ErrContactNotFound, name, s.contacts.Update(ctx, name, fn))
}

// AddPhone appends a phone to a contact.
func (s *Session) AddPhone(ctx context.Context, name, phone string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		if strings.TrimSpace(phone) == "" {
			return fmt.Errorf("%w: phone", ErrMissingArgument)
		}
		return r.AddPhone(phone)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("For contact %s was added phone number %s", name, phone), nil
}

// EditPhone replaces one of a contact's phones.
func (s *Session) EditPhone(ctx context.Context, name, old, replacement string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		return r.EditPhone(old, replacement)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone of %s was successfully changed from %s to %s.", name, old, replacement), nil
}

// DeletePhone removes one of a contact's phones.
func (s *Session) DeletePhone(ctx context.Context, name, phone string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		return r.RemovePhone(phone)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone of %s was successfully deleted", name), nil
}

// ShowPhones lists a contact's phones one per line.
func (s *Session) ShowPhones(name string) (string, error) {
	r, err := s.contact(name)
	if err != nil {
		return "", err
	}
	if len(r.Phones()) == 0 {
		return fmt.Sprintf("%s has no phone numbers.", name), nil
	}
	return strings.Join(r.Phones(), "\n"), nil
}

// SetBirthday sets or replaces a contact's birthday.
func (s *Session) SetBirthday(ctx context.Context, name, date string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		if strings.TrimSpace(date) == "" {
			return fmt.Errorf("%w: birthday", ErrMissingArgument)
		}
		return r.AddBirthday(date)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Birthday of %s was set to %s", name, strings.TrimSpace(date)), nil
}

// SetEmail sets or replaces a contact's email.
func (s *Session) SetEmail(ctx context.Context, name, email string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		if strings.TrimSpace(email) == "" {
			return fmt.Errorf("%w: email", ErrMissingArgument)
		}
		return r.AddEmail(email)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Email of %s was set to %s", name, strings.TrimSpace(email)), nil
}

// AddContactTag tags a contact.
func (s *Session) AddContactTag(ctx context.Context, name, tag string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: tag", ErrMissingArgument)
		}
		r.AddTag(tag)
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag %s was added to %s", strings.TrimSpace(tag), name), nil
}

// DeleteContactTag removes a tag from a contact.
func (s *Session) DeleteContactTag(ctx context.Context, name, tag string) (string, error) {
	err := s.updateContact(ctx, name, func(r *record.Record) error {
		return r.RemoveTag(tag)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag %s was removed from %s", tag, name), nil
}

// FindContacts lists every contact matching query.
func (s *Session) FindContacts(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: search text", ErrMissingArgument)
	}
	found := s.contacts.Find(query)
	if len(found) == 0 {
		return "No contacts found.", nil
	}
	return renderAll(found), nil
}

// ShowContacts starts a paginated listing of the address book.
func (s *Session) ShowContacts(pageSize int) string {
	return s.startListing(s.contacts.Iterate(pageSize), "The address book is empty.")
}

// DaysToBirthday reports how many days remain until a contact's birthday.
func (s *Session) DaysToBirthday(name string) (string, error) {
	r, err := s.contact(name)
	if err != nil {
		return "", err
	}
	days, ok := r.DaysToBirthday(s.now())
	switch {
	case !ok:
		return fmt.Sprintf("%s has no birthday set.", name), nil
	case days == 0:
		return fmt.Sprintf("Today is %s's birthday!", name), nil
	case days == 1:
		return fmt.Sprintf("1 day until %s's birthday.", name), nil
	}
	return fmt.Sprintf("%d days until %s's birthday.", days, name), nil
}

// UpcomingBirthdays lists contacts whose birthday is at most days away.
func (s *Session) UpcomingBirthdays(days int) (string, error) {
	if days < 0 {
		return "", fmt.Errorf("%w: days must not be negative", ErrInvalidArgument)
	}
	upcoming := book.UpcomingBirthdays(s.contacts, s.now(), days)
	if len(upcoming) == 0 {
		return fmt.Sprintf("No birthdays in the next %d days.", days), nil
	}
	lines := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		lines = append(lines, fmt.Sprintf("%s: in %d days (%s)", u.Record.Name(), u.Days, u.Record.Birthday()))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) contact(name string) (*record.Record, error) {
	name = record.NameKey(name)
	r, ok := s.contacts.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContactNotFound, name)
	}
	return r, nil
}

func renderAll[T paginator.Renderer](items []T) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Render())
	}
	return strings.Join(lines, "\n")
}
