package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an error so callers can react to the class of
// failure without string matching. All errors are terminal: the engine
// never retries a failed calculation.
type ErrorType uint

const (
	// ErrorTypeUnknown represents an unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeValidation represents malformed or out-of-range input
	ErrorTypeValidation
	// ErrorTypeComputation represents a numerical failure inside a calculator
	ErrorTypeComputation
	// ErrorTypeConfiguration represents missing or inconsistent regulatory parameters
	ErrorTypeConfiguration
	// ErrorTypeNotFound represents a missing resource
	ErrorTypeNotFound
	// ErrorTypeAlreadyExists represents a duplicate resource
	ErrorTypeAlreadyExists
	// ErrorTypeInternal represents an unexpected internal error
	ErrorTypeInternal
)

// AppError is the error value used across the engine.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new error with the given message
func New(message string) error {
	return &AppError{
		Type:    ErrorTypeUnknown,
		Message: message,
	}
}

// Newf creates a new error with the given format and arguments
func Newf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeUnknown,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with a message, preserving the original type
// when the wrapped error is already an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: message,
			Err:     err,
		}
	}
	return &AppError{
		Type:    ErrorTypeUnknown,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for
// errors that did not originate here.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// Validation creates a validation error from a format string.
func Validation(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Computation creates a computation error from a format string.
func Computation(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeComputation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Configuration creates a configuration error from a format string.
func Configuration(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound creates a new NotFound error
func NotFound(message string) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// AlreadyExists creates a new AlreadyExists error
func AlreadyExists(message string) error {
	return &AppError{
		Type:    ErrorTypeAlreadyExists,
		Message: message,
	}
}

// Internal creates a new Internal error
func Internal(message string) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
	}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return TypeOf(err) == ErrorTypeValidation }

// IsComputation reports whether err is a computation error.
func IsComputation(err error) bool { return TypeOf(err) == ErrorTypeComputation }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return TypeOf(err) == ErrorTypeConfiguration }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return TypeOf(err) == ErrorTypeNotFound }

// IsAlreadyExists reports whether err is an already-exists error.
func IsAlreadyExists(err error) bool { return TypeOf(err) == ErrorTypeAlreadyExists }
