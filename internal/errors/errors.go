package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard console and its backend
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")
	ErrPlanLimit = errors.New("plan user limit reached")

	// Request errors
	ErrValidation    = errors.New("validation failed")
	ErrTimeout       = errors.New("request timed out")
	ErrRequestFailed = errors.New("request failed")
	ErrRateLimited   = errors.New("too many attempts")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
