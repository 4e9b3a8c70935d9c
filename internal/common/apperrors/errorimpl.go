package apperrors

import (
	"errors"
	"strings"
)

type appError struct {
	msg           string
	base          error
	wrappedErrors []error
	exitCode      int
	suffix        string
}

func (e *appError) Error() string {
	if e.suffix != "" {
		return e.msg + ": " + e.suffix
	}
	return e.msg
}

// ErrorAll returns the message followed by the messages of errors attached with
// Err, Msg or MsgErr. The parent itself is not repeated.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		if err == e.base {
			continue
		}
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:      msg,
		base:     e,
		exitCode: e.exitCode,
	}
}

func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: []error{e},
		exitCode:      e.exitCode,
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		exitCode:      e.exitCode,
	}
}

func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		exitCode:      e.exitCode,
		suffix:        e.suffix,
	}
}

// Suffix returns a child error with the suffix appended to the message.
func (e *appError) Suffix(s string) Error {
	return &appError{
		msg:      e.Error(),
		base:     e,
		exitCode: e.exitCode,
		suffix:   s,
	}
}

// SetExitCode returns a shallow copy with an updated exit code.
// The copy keeps the identity of its parent chain but not of the receiver.
func (e *appError) SetExitCode(code int) Error {
	cp := *e
	cp.exitCode = code
	return &cp
}

func (e *appError) ExitCode() int {
	return e.exitCode
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// Is reports whether target is the base chain or any wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ExitCode returns the exit code of the first Error found in err's chain, or
// fallback when there is none or it carries no code.
func ExitCode(err error, fallback int) int {
	var ae Error
	if errors.As(err, &ae) && ae.ExitCode() != 0 {
		return ae.ExitCode()
	}
	return fallback
}
