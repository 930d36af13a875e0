package domain

import (
	"errors"
	"fmt"
)

// Predefined domain errors
var (
	// ErrNotFound resource does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput request failed validation before reaching a flow
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelUnavailable the hosted model call failed (transport, quota, timeout)
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidModelOutput the model replied but the reply did not match the output schema
	ErrInvalidModelOutput = errors.New("invalid model output")
	// ErrUnavailable a backing store is not reachable
	ErrUnavailable = errors.New("service unavailable")
	// ErrInternal Internal error
	ErrInternal = errors.New("internal error")
)

// User-facing messages returned by the HTTP boundary.
const (
	MsgInvalidInput     = "Invalid input"
	MsgInvalidImageData = "Invalid image data"
	MsgInternal         = "Internal error"
)

// DomainError domain error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface (used for logs and internal propagation)
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the message safe to show to clients
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewInvalidImageError is returned when a gesture frame is not a usable data URI.
func NewInvalidImageError(cause error) error {
	err := ErrInvalidInput
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, cause)
	}
	return &DomainError{
		Code:    "INVALID_IMAGE",
		Message: MsgInvalidImageData,
		Err:     err,
	}
}

// NewModelError wraps a failure talking to the hosted model.
func NewModelError(flow string, err error) error {
	return &DomainError{
		Code:    "MODEL_UNAVAILABLE",
		Message: fmt.Sprintf("%s: model call failed", flow),
		Err:     fmt.Errorf("%w: %v", ErrModelUnavailable, err),
	}
}

// NewModelOutputError is returned when the reply cannot be validated against the flow's output schema.
func NewModelOutputError(flow string, reason string) error {
	return &DomainError{
		Code:    "INVALID_MODEL_OUTPUT",
		Message: fmt.Sprintf("%s: %s", flow, reason),
		Err:     ErrInvalidModelOutput,
	}
}

// NewUnavailableError creates an unavailable error for a backing store
func NewUnavailableError(component string, err error) error {
	return &DomainError{
		Code:    "UNAVAILABLE",
		Message: fmt.Sprintf("%s is unavailable", component),
		Err:     fmt.Errorf("%w: %v", ErrUnavailable, err),
	}
}

// NewInternalError creates an internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: MsgInternal, // never expose internal details
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsModelError reports whether err came from the hosted model or its output validation
func IsModelError(err error) bool {
	return errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrInvalidModelOutput)
}

// IsUnavailable reports whether err is an unavailable error
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsInternalError reports whether err is an internal error
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
