// Package xerrors holds the sentinel errors shared across layers. Services
// wrap them with fmt.Errorf("%w: ...") and handlers match with errors.Is.
package xerrors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict: resource already exists")
	ErrRateLimited    = errors.New("too many requests")
	ErrSessionExpired = errors.New("session expired or invalid")
)

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// StatusCode maps err onto the HTTP status of the sentinel it wraps.
// Anything unrecognised is a 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
