package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/feedtime/internal/errors"
)

// TimeParseError represents a date or time parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	Cause      error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

func (e *TimeParseError) Unwrap() error {
	return e.Cause
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// DateExamples provides example date formats.
var DateExamples = []string{
	"today",
	"tomorrow",
	"2024-06-01",
	"01/06/2024",
	"next friday",
}

// TimeExamples provides example time formats.
var TimeExamples = []string{
	"18:30",
	"6:30pm",
	"7am",
}

// DateTimeExamples provides example combined formats.
var DateTimeExamples = []string{
	"2024-06-01 18:30",
	"01/06/2024 07:00",
	"tomorrow 7am",
	"friday at 6pm",
}

// NewDateError creates a date parse error with standard examples.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Dates are day first: 01/06/2024 is the 1st of June.",
		Cause:      errors.ErrInvalidDate,
	}
}

// NewTimeError creates a time parse error with standard examples.
func NewTimeError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "time",
		Message:    "could not parse time",
		Examples:   TimeExamples,
		Suggestion: "Times are 24-hour HH:MM or use am/pm.",
		Cause:      errors.ErrInvalidTime,
	}
}

// NewDateTimeError creates a combined parse error with standard examples.
func NewDateTimeError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date and time",
		Message:    "could not parse date and time",
		Examples:   DateTimeExamples,
		Suggestion: "Give both a date and a time, like '2024-06-01 18:30'.",
		Cause:      errors.ErrInvalidDate,
	}
}

// ToUserError converts a TimeParseError to a UserError for consistent handling.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 && suggestion == "" {
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}

	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion).WithCause(e.Cause)
}
