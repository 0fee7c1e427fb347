// Package apperr defines the error kinds the request boundary knows how to
// translate into HTTP responses. Services wrap these sentinels with context;
// handlers match them with errors.Is.
package apperr

import "errors"

var (
	// ErrUnauthorized means no usable identity: missing token, bad
	// signature, or a failed password check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means a valid identity lacks the role for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the id did not resolve to a record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail means a registration hit an existing email.
	ErrDuplicateEmail = errors.New("email already exists")
)
