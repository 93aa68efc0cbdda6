package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/field"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
)

// DefaultBirthdayWindow is used by "birthdays" when no day count is given.
const DefaultBirthdayWindow = 7

var validate = validator.New()

func parseName(_ context.Context, raw string) (string, error) {
	n, err := field.NewName(raw)
	if err != nil {
		return "", err
	}
	return n.Value(), nil
}

func parsePhone(_ context.Context, raw string) (string, error) {
	p, err := field.NewPhone(raw)
	if err != nil {
		return "", err
	}
	return p.Value(), nil
}

func parseBirthday(_ context.Context, raw string) (string, error) {
	b, err := field.NewBirthday(raw)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func parseEmail(_ context.Context, raw string) (string, error) {
	e, err := field.NewEmail(raw)
	if err != nil {
		return "", err
	}
	return e.Value(), nil
}

func parseText(_ context.Context, raw string) (string, error) {
	t, err := field.NewText(raw)
	if err != nil {
		return "", err
	}
	return t.Value(), nil
}

func parsePageSize(ctx context.Context, raw string) (string, error) {
	n, err := validate.ValidatePageSize(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", session.ErrInvalidArgument, err)
	}
	return strconv.Itoa(n), nil
}

func parseDays(_ context.Context, raw string) (string, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 366 {
		return "", fmt.Errorf("%w: days must be a number between 0 and 366", session.ErrInvalidArgument)
	}
	return strconv.Itoa(n), nil
}

// parseMatchMode accepts any/all and the y/n answers of the "all tags" prompt.
func parseMatchMode(_ context.Context, raw string) (string, error) {
	switch strings.ToLower(raw) {
	case "any", "n", "no":
		return "any", nil
	case "all", "y", "yes":
		return "all", nil
	}
	return "", fmt.Errorf("%w: match mode must be any or all", session.ErrInvalidArgument)
}

func name() Arg { return Arg{Name: "name", Parse: parseName} }
func noteID() Arg { return Arg{Name: "id"} }
func tag() Arg { return Arg{Name: "tag"} }

func commandTable(r *Router) []Command {
	return []Command{
		{
			Names: []string{"hello"},
			Help:  "say hello",
			Run: func(_ context.Context, s *session.Session, _ Args) (string, error) {
				return s.Hello(), nil
			},
		},
		{
			Names: []string{"help"},
			Help:  "list commands",
			Run: func(context.Context, *session.Session, Args) (string, error) {
				return r.Help(), nil
			},
		},
		{
			Names: []string{"add"},
			Help:  "add a contact",
			Args:  []Arg{name(), {Name: "phone", Optional: true, Parse: parsePhone}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				in := session.ContactInput{Name: a["name"]}
				if p, ok := a["phone"]; ok {
					in.Phones = []string{p}
				}
				return s.AddContact(ctx, in)
			},
		},
		{
			Names: []string{"remove"},
			Help:  "delete a contact",
			Args:  []Arg{name()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.DeleteContact(ctx, a["name"])
			},
		},
		{
			Names: []string{"new phone"},
			Help:  "add a phone to a contact",
			Args:  []Arg{name(), {Name: "phone", Parse: parsePhone}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.AddPhone(ctx, a["name"], a["phone"])
			},
		},
		{
			Names: []string{"edit phone"},
			Help:  "replace a phone of a contact",
			Args:  []Arg{name(), {Name: "old"}, {Name: "new", Parse: parsePhone}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.EditPhone(ctx, a["name"], a["old"], a["new"])
			},
		},
		{
			Names: []string{"delete phone"},
			Help:  "delete a phone of a contact",
			Args:  []Arg{name(), {Name: "phone"}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.DeletePhone(ctx, a["name"], a["phone"])
			},
		},
		{
			Names: []string{"phones"},
			Help:  "show the phones of a contact",
			Args:  []Arg{name()},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.ShowPhones(a["name"])
			},
		},
		{
			Names: []string{"birthday"},
			Help:  "set a birthday (DD.MM.YYYY)",
			Args:  []Arg{name(), {Name: "date", Parse: parseBirthday}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.SetBirthday(ctx, a["name"], a["date"])
			},
		},
		{
			Names: []string{"email"},
			Help:  "set an email",
			Args:  []Arg{name(), {Name: "email", Parse: parseEmail}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.SetEmail(ctx, a["name"], a["email"])
			},
		},
		{
			Names: []string{"add tag"},
			Help:  "tag a contact",
			Args:  []Arg{name(), tag()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.AddContactTag(ctx, a["name"], a["tag"])
			},
		},
		{
			Names: []string{"delete tag"},
			Help:  "remove a tag from a contact",
			Args:  []Arg{name(), tag()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.DeleteContactTag(ctx, a["name"], a["tag"])
			},
		},
		{
			Names: []string{"find"},
			Help:  "search contacts by name, phone, email or birthday",
			Args:  []Arg{{Name: "query"}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.FindContacts(a["query"])
			},
		},
		{
			Names: []string{"dtb"},
			Help:  "days to the birthday of a contact",
			Args:  []Arg{name()},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.DaysToBirthday(a["name"])
			},
		},
		{
			Names: []string{"birthdays"},
			Help:  "contacts with a birthday in the next DAYS days",
			Args:  []Arg{{Name: "days", Optional: true, Parse: parseDays}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.UpcomingBirthdays(a.Int("days", DefaultBirthdayWindow))
			},
		},
		{
			Names: []string{"show all"},
			Help:  "list contacts page by page",
			Args:  []Arg{{Name: "size", Optional: true, Parse: parsePageSize}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.ShowContacts(a.Int("size", 0)), nil
			},
		},
		{
			Names: []string{"note add"},
			Help:  "add a note, quote the text",
			Args:  []Arg{{Name: "text", Parse: parseText}, {Name: "tags", Optional: true, Rest: true}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.AddNote(ctx, a["text"], a.List("tags"))
			},
		},
		{
			Names: []string{"note delete"},
			Help:  "delete a note",
			Args:  []Arg{noteID()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.DeleteNote(ctx, a["id"])
			},
		},
		{
			Names: []string{"note edit"},
			Help:  "replace the text of a note",
			Args:  []Arg{noteID(), {Name: "text", Rest: true, Parse: parseText}},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.EditNote(ctx, a["id"], a["text"])
			},
		},
		{
			Names: []string{"note add tag"},
			Help:  "tag a note",
			Args:  []Arg{noteID(), tag()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.AddNoteTag(ctx, a["id"], a["tag"])
			},
		},
		{
			Names: []string{"note delete tag"},
			Help:  "remove a tag from a note",
			Args:  []Arg{noteID(), tag()},
			Run: func(ctx context.Context, s *session.Session, a Args) (string, error) {
				return s.DeleteNoteTag(ctx, a["id"], a["tag"])
			},
		},
		{
			Names: []string{"note find"},
			Help:  "search notes by text or tag",
			Args:  []Arg{{Name: "query"}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.FindNotes(a["query"])
			},
		},
		{
			Names: []string{"note tags"},
			Help:  "notes carrying any or all of the tags",
			Args:  []Arg{{Name: "mode", Parse: parseMatchMode}, {Name: "tags", Rest: true}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.FindNotesByTags(a.List("tags"), a["mode"] == "all")
			},
		},
		{
			Names: []string{"note show"},
			Help:  "list notes page by page",
			Args:  []Arg{{Name: "size", Optional: true, Parse: parsePageSize}},
			Run: func(_ context.Context, s *session.Session, a Args) (string, error) {
				return s.ShowNotes(a.Int("size", 0)), nil
			},
		},
		{
			Names: []string{"next"},
			Help:  "next page of the last listing",
			Run: func(_ context.Context, s *session.Session, _ Args) (string, error) {
				return s.Next()
			},
		},
		{
			Names: []string{"exit", "close", "good bye"},
			Help:  "leave the shell",
			Exit:  true,
			Run: func(context.Context, *session.Session, Args) (string, error) {
				return ExitMessage, nil
			},
		},
	}
}
