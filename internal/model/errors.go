package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that an id or slug did not resolve, as opposed
	// to the store failing to answer.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange signals an analytics window with from after to.
	ErrInvalidRange = errors.New("invalid date range")
)

// ValidationError is a caller fault on create/update input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
