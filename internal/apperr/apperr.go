// Package apperr defines the error classes surfaced to API callers. Other packages wrap these
// sentinels with %w so the class survives any amount of added context.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized indicates bad credentials or an invalid, expired or superseded token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller is authenticated but does not own the target resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the referenced identity or resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a write would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrUpstream indicates the media collaborator failed.
	ErrUpstream = errors.New("upstream failure")
	// ErrInternal indicates an unexpected failure.
	ErrInternal = errors.New("internal error")
)

var classes = []struct {
	err    error
	code   string
	status int
}{
	{ErrInvalidInput, "invalid_input", http.StatusBadRequest},
	{ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{ErrForbidden, "forbidden", http.StatusForbidden},
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrConflict, "conflict", http.StatusConflict},
	{ErrUpstream, "upstream_failure", http.StatusBadGateway},
	{ErrInternal, "internal", http.StatusInternalServerError},
}

// Classify returns the HTTP status and stable machine-readable code for err.
// Errors outside the taxonomy are reported as internal.
func Classify(err error) (int, string) {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.status, c.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Message returns a caller-safe message for err. Server-side failures never leak their details.
func Message(err error) string {
	status, _ := Classify(err)
	switch {
	case errors.Is(err, ErrUpstream):
		return "media service unavailable"
	case status >= http.StatusInternalServerError:
		return "internal error"
	}
	return err.Error()
}

// Upstream wraps a failed call to the media collaborator. Errors that already carry a
// client-side class, such as a rejected file type, keep it; anything else becomes ErrUpstream.
func Upstream(op string, err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUpstream) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
