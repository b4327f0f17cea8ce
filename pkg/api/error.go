package api

import (
	"errors"
	"fmt"
)

// Error represents a backend API error.
//
// The backend reports human-readable failure detail in a "detail" field;
// that text is safe to surface to the user during enrollment failures.
type Error struct {
	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`

	// Detail is the backend-provided human-readable detail, if any.
	Detail string `json:"detail"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (http=%d)", e.Detail, e.HTTPStatus)
	}
	return fmt.Sprintf("api: request failed (http=%d)", e.HTTPStatus)
}

// IsAuth returns true if the request was rejected for missing or invalid
// credentials.
func (e *Error) IsAuth() bool {
	return e.HTTPStatus == 401 || e.HTTPStatus == 403
}

// IsNotFound returns true if the resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == 404
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.HTTPStatus == 429 || e.HTTPStatus >= 500
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Detail returns the backend-provided detail text from an error, or "" when
// the error carries none (e.g. a transport failure).
func Detail(err error) string {
	if e, ok := AsError(err); ok {
		return e.Detail
	}
	return ""
}
