package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can map it to a transport status
// without string matching.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTransient
)

type Error struct {
	Kind Kind
	Msg  string // safe to show to the client
	Err  error  // underlying cause, logged server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Transient marks a store-level conflict (aborted transaction, serialization
// failure) that the caller may safely retry.
func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Msg: "temporary conflict, please retry", Err: err}
}

// Unexpected wraps anything we did not anticipate. The message shown to the
// client stays generic; err carries the detail for the logs.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Msg: "internal server error", Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps the error kind to the HTTP status the handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindTransient:
		return 503
	default:
		return 500
	}
}
