package feeder

import (
	"time"

	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/validate"
)

// Placeholder labels shown before a selection is made.
const (
	DatePlaceholder = "Select Date"
	TimePlaceholder = "Select Time"
)

// Form holds an in-progress schedule: a date, then a time on that date.
// A rejected date or time clears the whole form. Picking a time before any
// date only raises the alert and leaves the form as it was.
type Form struct {
	date    time.Time
	hasDate bool
	at      time.Time
	hasTime bool
}

// SelectDate validates and stores the date. A new date drops any time
// already chosen, since the time was validated against the old date.
func (f *Form) SelectDate(t, now time.Time) error {
	if err := validate.Date(t, now); err != nil {
		f.Reset()
		return err
	}
	t = t.In(now.Location())
	f.date = model.Midnight(t)
	f.hasDate = true
	f.at = time.Time{}
	f.hasTime = false
	return nil
}

// SelectTime validates the time against the selected date and stores the
// combined instant.
func (f *Form) SelectTime(t, now time.Time) error {
	if !f.hasDate {
		return errors.NewUserError(validate.MsgDateRequired, "").WithCause(errors.ErrDateRequired)
	}
	if err := validate.Time(f.date, t, now); err != nil {
		f.Reset()
		return err
	}
	f.at = validate.Combine(f.date, t.In(f.date.Location()))
	f.hasTime = true
	return nil
}

// HasDate reports whether a date has been accepted.
func (f *Form) HasDate() bool {
	return f.hasDate
}

// Ready reports whether both selections have passed validation.
func (f *Form) Ready() bool {
	return f.hasDate && f.hasTime
}

// Date returns the selected date at midnight.
func (f *Form) Date() (time.Time, bool) {
	return f.date, f.hasDate
}

// At returns the combined instant.
func (f *Form) At() (time.Time, bool) {
	return f.at, f.hasTime
}

// Schedule builds the schedule for the current selection.
func (f *Form) Schedule() (*model.Schedule, error) {
	if !f.Ready() {
		return nil, errors.NewUserError("Select a date and a time first.", "").
			WithCause(errors.ErrIncompleteSelection)
	}
	return model.NewSchedule(f.at), nil
}

// Reset discards both selections.
func (f *Form) Reset() {
	*f = Form{}
}

// DateLabel returns the display string for the date button.
func (f *Form) DateLabel() string {
	if !f.hasDate {
		return DatePlaceholder
	}
	return f.date.Format(model.DateLayout)
}

// TimeLabel returns the display string for the time button.
func (f *Form) TimeLabel() string {
	if !f.hasTime {
		return TimePlaceholder
	}
	return f.at.Format(model.TimeLayout)
}
