package validate

import (
	"time"

	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/model"
)

// User-facing validation messages.
const (
	MsgDateInPast   = "Selected date must be today or later."
	MsgTimeInPast   = "Selected time must be now or later."
	MsgDateRequired = "Please select a date first."
)

// Date rejects a selected date whose calendar day is before today.
// Time of day on either side is ignored.
func Date(selected, now time.Time) error {
	selected = selected.In(now.Location())
	if model.Midnight(selected).Before(model.Midnight(now)) {
		return errors.NewUserError(MsgDateInPast, "").
			WithCause(errors.ErrDateInPast)
	}
	return nil
}

// Time rejects a selected time earlier than the current minute when date is
// today. Any time on a later date passes, as does the current minute itself.
func Time(date, selected, now time.Time) error {
	if !model.SameDay(now, date) {
		return nil
	}

	candidate := Combine(date.In(now.Location()), selected.In(now.Location()))
	if candidate.Before(model.TruncateMinute(now)) {
		return errors.NewUserError(MsgTimeInPast, "").
			WithCause(errors.ErrTimeInPast)
	}
	return nil
}

// Combine takes the calendar day from date and the hour and minute from tm.
// Seconds are dropped and the result is in date's location.
func Combine(date, tm time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tm.Hour(), tm.Minute(), 0, 0, date.Location())
}
