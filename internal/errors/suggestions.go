package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrDateInPast:          "Pick today or a later date.",
	ErrTimeInPast:          "Pick the current minute or later, or choose a future date.",
	ErrDateRequired:        "Select a date before selecting a time.",
	ErrIncompleteSelection: "Select both a date and a time, then confirm.",
	ErrScheduleIndex:       "Use 'feedtime dashboard' to see the pending schedules.",
	ErrInvalidDeviceURL:    "Use an address like 'http://192.168.1.3' or set FEEDTIME_DEVICE_ADDR.",
	ErrInvalidDeviceValue:  "Hours must be 0-23 and minutes 0-59.",
	ErrInvalidDate:         "Try formats like '2024-06-01', '01/06/2024', 'today' or 'tomorrow'.",
	ErrInvalidTime:         "Try formats like '18:30', '6:30pm' or 'noon'.",
}

// GetSuggestion returns a suggestion for an error, if available.
// A UserError's own suggestion wins over the sentinel map.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// FormatError formats an error with its suggestion on the following line.
func FormatError(err error) string {
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}
