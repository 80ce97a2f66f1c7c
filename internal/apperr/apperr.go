// Package apperr carries the closed set of failure kinds the API can answer
// with, and the Fiber error handler that turns them into responses.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failure. The set is closed; anything not carrying a Kind
// is treated as Internal.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindAccessDenied
	KindInvalid
	KindNotFound
)

// Fixed response messages.
const (
	MsgUnauthenticated = "Access Denied"
	MsgNotOwner        = "Access denied. User does not own the course."
	MsgCourseNotFound  = "The course was not found"
	MsgUserNotFound    = "The user was not found"
	MsgInternal        = "An unexpected error occurred"
	MsgInvalidJSON     = "Request body must be valid JSON"
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAccessDenied:
		return "access_denied"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status maps the kind onto its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAccessDenied:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Messages are safe to show to callers; Err is
// the underlying cause and is only ever logged.
type Error struct {
	Kind     Kind
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthenticated is the single, reason-free authentication failure.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Messages: []string{MsgUnauthenticated}}
}

// AccessDenied reports an ownership mismatch.
func AccessDenied() *Error {
	return &Error{Kind: KindAccessDenied, Messages: []string{MsgNotOwner}}
}

// Invalid aggregates field-level messages into one 400 failure.
func Invalid(messages ...string) *Error {
	return &Error{Kind: KindInvalid, Messages: messages}
}

// NotFound reports a missing resource with a caller-facing message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Messages: []string{message}}
}

// Internal wraps an unexpected cause.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Messages: []string{MsgInternal}, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
