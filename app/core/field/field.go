// Package field provides self-validating scalar wrappers used by pocketbook records.
//
// Every field type runs the same parse function on construction and on Set, so a
// value stored in a field has always passed validation. A failed Set leaves the
// previously stored value untouched.
package field

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation failure reasons. ValidationError unwraps to one of these.
var (
	ErrEmptyRequired = errors.New("empty required field")
	ErrPhoneDigits   = errors.New("must be 10 digits")
	ErrDateFormat    = errors.New("invalid date format")
	ErrDateInFuture  = errors.New("date in future")
	ErrEmailFormat   = errors.New("invalid email format")
)

// Now is the clock used by validations that depend on the current date.
// Tests replace it to pin "today".
var Now = time.Now

// ValidationError reports which field rejected which value and why.
type ValidationError struct {
	Field  string
	Value  string
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Field is a validated value of type T. The zero Field is unset.
type Field[T any] struct {
	name     string
	value    T
	set      bool
	required bool
	parse    func(string) (T, error)
	format   func(T) string
}

func newField[T any](name string, required bool, parse func(string) (T, error), format func(T) string) Field[T] {
	return Field[T]{
		name:     name,
		required: required,
		parse:    parse,
		format:   format,
	}
}

// Set validates raw and stores the parsed value. A blank raw value clears an
// optional field and is rejected for a required one. Anything else reaches the
// parse function unchanged, so surrounding whitespace is the parser's call.
func (f *Field[T]) Set(raw string) error {
	if strings.TrimSpace(raw) == "" {
		if f.required {
			return &ValidationError{Field: f.name, Reason: ErrEmptyRequired}
		}
		var zero T
		f.value = zero
		f.set = false
		return nil
	}

	v, err := f.parse(raw)
	if err != nil {
		return &ValidationError{Field: f.name, Value: raw, Reason: err}
	}

	f.value = v
	f.set = true
	return nil
}

// Value returns the stored value, or the zero value of T when unset.
func (f *Field[T]) Value() T {
	return f.value
}

// IsSet reports whether the field holds a value.
func (f *Field[T]) IsSet() bool {
	return f.set
}

// Required reports whether the field rejects empty values.
func (f *Field[T]) Required() bool {
	return f.required
}

// String returns the display form, "" for an unset field.
func (f *Field[T]) String() string {
	if !f.set {
		return ""
	}
	return f.format(f.value)
}

func formatString(s string) string {
	return s
}
