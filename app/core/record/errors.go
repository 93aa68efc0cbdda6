// Package record contains the contact Record and the Note, the two entities
// stored in pocketbook collections.
package record

import "errors"

var (
	// ErrPhoneNotFound is returned when an edit or remove names a phone the record does not have.
	ErrPhoneNotFound = errors.New("phone not found")
	// ErrPhoneExists is returned when a phone value is already on the record.
	ErrPhoneExists = errors.New("phone already exists")
	// ErrTagNotFound is returned when removing a tag that is not set.
	ErrTagNotFound = errors.New("tag not found")
)
