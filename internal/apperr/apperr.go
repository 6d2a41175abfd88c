// Package apperr defines the closed set of expected request failures.
//
// Handlers, guards and services return *Error for anything a client caused
// (bad input, missing credentials, missing entities). The central error
// mapper in the HTTP layer is the only place that turns one into a response.
package apperr

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-board-backend/internal/i18n"
)

// Kind enumerates the failure variants.
type Kind uint8

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// String returns the machine-readable code for k.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is an expected request failure. The message is kept as an i18n
// template and rendered in the configured locale when the response is
// written.
type Error struct {
	Kind Kind
	Msg  i18n.Message
}

// Error implements error using the untranslated template.
func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg.String() }

// StatusCode returns the HTTP status for the failure's kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, def i18n.Key, key i18n.Key, args []any) *Error {
	if key == "" {
		key, args = def, nil
	}
	return &Error{Kind: kind, Msg: i18n.M(key, args...)}
}

// BadRequest reports malformed input. An empty key yields "BAD_REQUEST".
func BadRequest(key i18n.Key, args ...any) *Error {
	return newError(KindBadRequest, i18n.CodeBadRequest, key, args)
}

// Unauthorized reports a missing or invalid credential. An empty key yields
// "UNAUTHORIZED".
func Unauthorized(key i18n.Key, args ...any) *Error {
	return newError(KindUnauthorized, i18n.CodeUnauthorized, key, args)
}

// Forbidden reports an authenticated caller that may not proceed. An empty
// key yields "FORBIDDEN".
func Forbidden(key i18n.Key, args ...any) *Error {
	return newError(KindForbidden, i18n.CodeForbidden, key, args)
}

// NotFound reports a missing entity or route. An empty key yields
// "NOT_FOUND".
func NotFound(key i18n.Key, args ...any) *Error {
	return newError(KindNotFound, i18n.CodeNotFound, key, args)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
