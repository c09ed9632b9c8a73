package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("username or email already exists")
	ErrReference    = errors.New("referenced resource does not exist")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError carries the message shown to the client for a rejected request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns an error that matches ErrValidation and reports msg to the client.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicate) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrReference) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text that may be sent to a client for err.
// Anything that maps to a 5xx is reduced to a generic message.
func PublicMessage(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrValidation):
		return "Invalid request"
	case errors.Is(err, ErrDuplicate):
		return "Username or email already exists"
	case errors.Is(err, ErrUnauthorized):
		return "Invalid credentials"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return "Invalid or expired token"
	case errors.Is(err, ErrReference):
		return "Project not found"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	}
	return "Internal server error"
}
