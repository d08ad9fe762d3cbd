// Package apperr defines the outcome taxonomy shared by services and HTTP
// handlers. Every failure leaving a service is an *Error of one Kind.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an outcome.
type Kind int

const (
	// KindInternal is a persistence or unexpected runtime failure.
	KindInternal Kind = iota
	// KindValidation means caller input was malformed.
	KindValidation
	// KindNotFound means the resource is absent or hidden from the caller.
	KindNotFound
	// KindForbidden means the caller may not modify an existing resource.
	KindForbidden
	// KindUnauthenticated means the caller must sign in first.
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation failed"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal error"
	}
}

// Error is a classified failure.
type Error struct {
	// Kind is the outcome class.
	Kind Kind
	// Message is a caller-safe description. Empty means Kind.String().
	Message string
	// Fields holds per-field messages for KindValidation, keyed by form field name.
	Fields map[string]string
	// Err is the underlying cause, never shown to callers.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found outcome.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrInternal        = &Error{Kind: KindInternal}
)

// ErrConflict is returned by stores when a unique constraint is violated.
var ErrConflict = errors.New("already exists")

// NotFound returns a not-found outcome with the given message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden returns a forbidden outcome with the given message.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated returns an outcome asking the caller to sign in.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated}
}

// Invalid returns a validation outcome carrying field messages.
func Invalid(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf returns the Kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns the field messages of a validation outcome, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
