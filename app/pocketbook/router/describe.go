package router

import (
	"errors"
	"fmt"

	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/field"
	"github.com/pocketbook/pocketbook/app/core/record"
	"github.com/pocketbook/pocketbook/app/panichandler"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/locker"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
)

// Describe turns an error into the sentence shown to the user.
func Describe(err error) string {
	var (
		vErr *field.ValidationError
		pErr *panichandler.PanicError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrContactNotFound):
		return "There is no contact with such name. Use 'show all' command to view your contact list."
	case errors.Is(err, session.ErrNoteNotFound):
		return "There is no note with such id. Use 'note show' command to view your notes."
	case errors.Is(err, book.ErrDuplicateKey):
		return "Contact with such name is already exists. Use 'show all' command to view your contact list."
	case errors.Is(err, record.ErrPhoneNotFound):
		return "There is no such phone number"
	case errors.Is(err, record.ErrPhoneExists):
		return "This phone number is already saved for the contact."
	case errors.Is(err, record.ErrTagNotFound):
		return "There is no such tag"
	case errors.As(err, &vErr):
		return describeValidation(vErr)
	case errors.Is(err, session.ErrMissingArgument):
		return "Less arguments given."
	case errors.Is(err, ErrTooManyArguments):
		return "Too many arguments given. Put values with spaces in double quotes."
	case errors.Is(err, ErrUnterminatedQuote):
		return "A double quote is not closed."
	case errors.Is(err, session.ErrNoActivePage):
		return "Nothing to page through. Use 'show all' or 'note show' first."
	case errors.Is(err, book.ErrPersist):
		return fmt.Sprintf("Your change could not be saved and was undone: %v", err)
	case errors.Is(err, locker.ErrLocked):
		return "Another pocketbook is running on this data directory."
	case errors.As(err, &pErr):
		return "Something went wrong: " + pErr.Error()
	}
	return "Error: " + err.Error()
}

func describeValidation(err *field.ValidationError) string {
	switch {
	case errors.Is(err, field.ErrEmptyRequired):
		return fmt.Sprintf("The %s cannot be empty.", err.Field)
	case errors.Is(err, field.ErrPhoneDigits):
		return fmt.Sprintf("Phone %q is invalid: a phone must be 10 digits.", err.Value)
	case errors.Is(err, field.ErrDateFormat):
		return fmt.Sprintf("Date %q is invalid: use DD.MM.YYYY.", err.Value)
	case errors.Is(err, field.ErrDateInFuture):
		return fmt.Sprintf("Date %q is in the future.", err.Value)
	case errors.Is(err, field.ErrEmailFormat):
		return fmt.Sprintf("Email %q is invalid.", err.Value)
	}
	return "Invalid " + err.Error()
}
