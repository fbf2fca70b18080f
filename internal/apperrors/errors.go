package apperrors

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error pairs one of the sentinel kinds above with a client-facing message.
// Handlers pick the HTTP status from the kind and the body from the message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func E(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
