package utils

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindDuplicateBooking     ErrorKind = "DUPLICATE_BOOKING"
	KindInsufficientCapacity ErrorKind = "INSUFFICIENT_CAPACITY"
	KindInvalidState         ErrorKind = "INVALID_STATE"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindInternal             ErrorKind = "INTERNAL_ERROR"
)

// AppError is the error type every layer hands to the HTTP boundary. Message
// is safe to show to clients; Err carries the underlying cause for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func NewDuplicateBookingError() *AppError {
	return &AppError{Kind: KindDuplicateBooking, Message: ErrDuplicateBooking}
}

func NewInsufficientCapacityError(remaining int) *AppError {
	return &AppError{
		Kind:    KindInsufficientCapacity,
		Message: fmt.Sprintf("Only %d seats are available for booking", remaining),
	}
}

func NewInvalidStateError(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = ErrUnauthorized
	}
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of the first AppError in err's chain. Errors that
// never went through an AppError constructor are Internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// PublicMessage returns the client-facing text for err.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return ErrInternalServer
}
