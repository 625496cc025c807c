package tui

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/manav03panchal/feedtime/internal/parser"
)

// pickerModel backs the date and time input forms.
type pickerModel struct {
	Input string
}

// newDatePicker creates the date input. Unparseable text is rejected inline;
// past dates are rejected after submit so the form can be reset.
func newDatePicker(pm *pickerModel, now func() time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("today, tomorrow, next friday, 2024-06-01 or 01/06/2024").
				Placeholder("today").
				Value(&pm.Input).
				Validate(func(s string) error {
					_, err := parser.ParseDate(s, now())
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// newTimePicker creates the time input.
func newTimePicker(pm *pickerModel, now func() time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time").
				Description("18:30, 6:30pm, 7am or now").
				Placeholder("now").
				Value(&pm.Input).
				Validate(func(s string) error {
					_, err := parser.ParseTime(s, now())
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
