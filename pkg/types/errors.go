package types

import (
	"errors"
	"fmt"
)

// Domain errors shared by the service and its transports
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrBackendNotConfigured  = errors.New("API Management service not configured")
	ErrInvalidOrganisationID = errors.New("organisation name is required")
	ErrInvalidTypeCode       = errors.New("organisation type code is required")
	ErrNegativeDistance      = errors.New("distance cannot be negative")
)

// ValidationError describes a rejected input parameter
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports ErrInvalidInput so callers can classify with errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for param
func NewValidationError(param, format string, args ...interface{}) error {
	return &ValidationError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError describes a lookup that resolved to nothing
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is reports ErrNotFound so callers can classify with errors.Is
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
