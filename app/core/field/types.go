package field

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only accepted birthday format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

var emailPattern = regexp.MustCompile(`^[\w.]+@([A-Za-z0-9-]+\.)+[A-Za-z]{2,4}$`)

// Name is the identity of a contact. It is always required.
type Name struct {
	Field[string]
}

// NewName validates and returns a Name.
func NewName(raw string) (*Name, error) {
	n := &Name{Field: newField("name", true, parseTrimmed, formatString)}
	if err := n.Set(raw); err != nil {
		return nil, err
	}
	return n, nil
}

func parseTrimmed(raw string) (string, error) {
	return strings.TrimSpace(raw), nil
}

// Phone holds exactly ten decimal digits.
type Phone struct {
	Field[string]
}

// NewPhone validates and returns a Phone.
func NewPhone(raw string) (*Phone, error) {
	p := &Phone{Field: newField("phone", true, parsePhone, formatString)}
	if err := p.Set(raw); err != nil {
		return nil, err
	}
	return p, nil
}

func parsePhone(raw string) (string, error) {
	if len(raw) != 10 {
		return "", ErrPhoneDigits
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", ErrPhoneDigits
		}
	}
	return raw, nil
}

// Birthday is an optional date that must not lie after today.
type Birthday struct {
	Field[time.Time]
}

// NewBirthday returns an unset Birthday, or a validated one when raw is not empty.
func NewBirthday(raw string) (*Birthday, error) {
	b := &Birthday{Field: newField("birthday", false, parseBirthday, formatDate)}
	if err := b.Set(raw); err != nil {
		return nil, err
	}
	return b, nil
}

func parseBirthday(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	now := Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, ErrDateInFuture
	}
	return d, nil
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Email is an optional address of the form local@domain.tld.
type Email struct {
	Field[string]
}

// NewEmail returns an unset Email, or a validated one when raw is not empty.
func NewEmail(raw string) (*Email, error) {
	e := &Email{Field: newField("email", false, parseEmail, formatString)}
	if err := e.Set(raw); err != nil {
		return nil, err
	}
	return e, nil
}

func parseEmail(raw string) (string, error) {
	if !emailPattern.MatchString(raw) {
		return "", ErrEmailFormat
	}
	return raw, nil
}

// Text is the required body of a note.
type Text struct {
	Field[string]
}

// NewText validates and returns a Text.
func NewText(raw string) (*Text, error) {
	t := &Text{Field: newField("text", true, parseTrimmed, formatString)}
	if err := t.Set(raw); err != nil {
		return nil, err
	}
	return t, nil
}
