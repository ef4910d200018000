package types

import (
	"errors"
	"fmt"
)

// Lookup errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrInvalidID = errors.New("invalid entity ID")
)

// Validation sentinels. They reach callers wrapped in a *ValidationError.
var (
	ErrInvalidName      = errors.New("name must not be empty")
	ErrNoFields         = errors.New("blueprint must have at least one field")
	ErrInvalidFieldID   = errors.New("field ID must not be empty")
	ErrDuplicateFieldID = errors.New("duplicate field ID")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrFieldNotFound    = errors.New("field not found")
	ErrFieldSetMismatch = errors.New("field values do not match the contract's fields")
	ErrTypeMismatch     = errors.New("value does not match field type")
	ErrInvalidValue     = errors.New("invalid field value")
	ErrInvalidStatus    = errors.New("invalid contract status")
)

// Store errors.
var (
	ErrStoreClosed = errors.New("store is closed")
)

// ValidationError reports caller-supplied data that breaks a structural
// invariant. Field names the offending attribute when known.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Err.Error()
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps err in a ValidationError for the given field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
