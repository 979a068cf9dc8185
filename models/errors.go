package models

import (
	"errors"
	"fmt"
)

var (
	ErrSpotNotFound      = errors.New("parking spot not found")
	ErrSpotUnavailable   = errors.New("parking spot is not available")
	ErrInvalidTransition = errors.New("action not allowed in the current step")
	ErrNoSummary         = errors.New("no completed session to rate")
	ErrNoSession         = errors.New("no active parking session")
)

// InvalidDurationError is returned for reservation or extension lengths
// below one hour or above Max hours.
type InvalidDurationError struct {
	Hours int
	Max   int
}

func (e *InvalidDurationError) Error() string {
	if e.Hours < 1 {
		return fmt.Sprintf("invalid duration %dh: at least 1 hour is required", e.Hours)
	}
	return fmt.Sprintf("invalid duration %dh: at most %d hours are allowed", e.Hours, e.Max)
}

// CheckDuration rejects hours outside [1, limit].
func CheckDuration(hours, limit int) error {
	if hours < 1 || hours > limit {
		return &InvalidDurationError{Hours: hours, Max: limit}
	}
	return nil
}

// ValidationError reports a missing or malformed user or payment field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is (or wraps) a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	var de *InvalidDurationError
	return errors.As(err, &ve) || errors.As(err, &de)
}
