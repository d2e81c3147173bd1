package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest matches every request validation failure.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrYearOutOfRange is returned for years outside the configured range.
	ErrYearOutOfRange = errors.New("year out of supported range")
	// ErrInvalidDate is returned for a missing date.
	ErrInvalidDate = errors.New("invalid date")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrInvalidRequest.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func newValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
