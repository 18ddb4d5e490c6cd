// Package apperr defines the error taxonomy surfaced by the HTTP layer.
// Services return these; handlers map them to status codes and the error
// envelope without inventing codes of their own.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation     Kind = iota + 1 // bad input, field-level detail
	KindAuthentication                 // missing/invalid credentials or token
	KindAuthorization                  // authenticated but not permitted
	KindNotFound
	KindBadID    // malformed resource identifier
	KindConflict // duplicate identity
	KindInternal
)

type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string { return e.Message }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadID, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func BadID(msg string) *Error {
	return &Error{Kind: KindBadID, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// From returns err as an *Error, wrapping anything unrecognized as internal
// so store failures never leak driver details to clients.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal server error")
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
