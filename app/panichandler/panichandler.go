// Package panichandler turns panics into log entries instead of crashes.
package panichandler

import (
	"log/slog"
	"runtime/debug"

	"github.com/pocketbook/pocketbook/app/paniclogger"
)

// Recover logs a panic with its stack trace.
// Usage: defer panichandler.Recover("context")
func Recover(context string) {
	if r := recover(); r != nil {
		report(context, r)
	}
}

// RecoverWithCallback logs a panic and then runs callback, for example to set
// the exit code.
// Usage: defer panichandler.RecoverWithCallback("context", func() { ... })
func RecoverWithCallback(context string, callback func()) {
	if r := recover(); r != nil {
		report(context, r)
		if callback != nil {
			callback()
		}
	}
}

// Guard runs fn and converts a panic into a returned error value. The shell
// uses it so one failing command does not end the session.
func Guard(context string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report(context, r)
			err = &PanicError{Context: context, Value: r}
		}
	}()
	return fn()
}

// PanicError is returned by Guard.
type PanicError struct {
	Context string
	Value   any
}

func (e *PanicError) Error() string {
	return "internal error in " + e.Context + " (details in panic.log)"
}

func report(context string, r any) {
	stackTrace := string(debug.Stack())

	// always written to panic.log
	paniclogger.LogPanic(context, r, stackTrace)

	slog.Error("caught panic",
		slog.String("context", context),
		slog.Any("error", r),
		slog.String("stack", stackTrace),
	)
}
