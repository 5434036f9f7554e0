package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard toolkit
var (
	// Session errors
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")

	// Upstream errors
	ErrNetwork      = errors.New("network failure")
	ErrUnauthorized = errors.New("unauthorized")

	// Storage errors
	ErrMalformedStorageData = errors.New("malformed storage data")
	ErrPersistence          = errors.New("persistence failure")

	// Record errors
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Classify attaches a sentinel to an underlying cause so callers can test
// with errors.Is while the message keeps the original detail.
func Classify(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%v: %w", cause, sentinel)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
