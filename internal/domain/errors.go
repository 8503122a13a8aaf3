package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource or a malformed id.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a request that violates a schema or query constraint.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists signals a duplicate unique value.
	ErrAlreadyExists = errors.New("duplicate field value entered")
	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("not authorized to access this route")
	// ErrForbidden signals an actor without the role or ownership to mutate a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream signals a failure of an external collaborator (geocoder).
	ErrUpstream = errors.New("upstream failure")
	// ErrUpload signals a rejected file upload.
	ErrUpload = errors.New("upload failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// Error carries a human-readable message for one of the sentinel kinds above.
// errors.Is(err, Kind) holds through any amount of wrapping.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates an error of the given kind with a fixed message.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-safe message of a domain error, or "" if err carries none.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
