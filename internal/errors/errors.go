// Package errors provides consistent error types for feedtime.
// It defines two categories: UserError (fixable by the user, shown as an
// alert) and SystemError (storage or transport problems).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrDateInPast          = errors.New("selected date is in the past")
	ErrTimeInPast          = errors.New("selected time is in the past")
	ErrDateRequired        = errors.New("date not selected")
	ErrIncompleteSelection = errors.New("date and time must both be selected")
	ErrScheduleIndex       = errors.New("schedule index out of range")
	ErrInvalidDeviceURL    = errors.New("invalid device address")
	ErrInvalidDeviceValue  = errors.New("invalid device parameter")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTime         = errors.New("invalid time")
	ErrDeviceUnreachable   = errors.New("feeder device unreachable")
)

// UserError represents an error that the user can fix.
// Examples: a date in the past, a time picked before a date.
type UserError struct {
	Message    string // What happened, shown verbatim in alerts
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error  // Sentinel for errors.Is matching (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// WithCause attaches a sentinel so callers can match with errors.Is.
func (e *UserError) WithCause(cause error) *UserError {
	e.Cause = cause
	return e
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: storage failure, unreachable device.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
