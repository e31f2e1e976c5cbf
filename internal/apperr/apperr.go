// Package apperr carries classified failures from the service layer up to the
// handlers. An Error always has an HTTP status and a user-safe message; the
// wrapped cause is for server-side logs only.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	Errors  []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Validation builds the 400 returned when a validator fails. Message is fixed
// so clients key off the errors list.
func Validation(errs []string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Validation failed", Errors: errs}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized deliberately does not distinguish a malformed credential from a
// missing one.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Authentication required"}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal wraps an unclassified error. The cause never reaches the client.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", cause: cause}
}

// From returns err unchanged when it is already classified, otherwise wraps it
// as a 500. Intermediate layers use this so explicit statuses propagate intact.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
