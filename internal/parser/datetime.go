// Package parser turns typed dates and times into instants for the schedule
// picker. Numeric layouts are tried first, then natural language.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// Layouts accepted without going through natural-language parsing.
var (
	dateLayouts     = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02/01/06"}
	timeLayouts     = []string{"15:04", "15.04", "3:04pm", "3:04PM", "3pm", "3PM"}
	dateTimeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "02/01/2006 15:04", "2/1/2006 15:04"}
)

// ParseDate parses a calendar date and returns midnight of that day in
// now's location.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewDateError(input)
	}
	if strings.EqualFold(input, "today") {
		return midnight(now), nil
	}

	if t, ok := parseLayouts(input, dateLayouts, now); ok {
		return midnight(t), nil
	}

	t, err := parseNatural(input, now)
	if err != nil {
		return time.Time{}, NewDateError(input)
	}
	return midnight(t), nil
}

// ParseTime parses a time of day and returns it on now's calendar day,
// truncated to the minute. Only the hour and minute are meaningful.
func ParseTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewTimeError(input)
	}
	if strings.EqualFold(input, "now") {
		return onDay(now, now), nil
	}

	if t, ok := parseLayouts(strings.ReplaceAll(input, " ", ""), timeLayouts, now); ok {
		return onDay(now, t), nil
	}

	t, err := parseNatural(input, now)
	if err != nil {
		return time.Time{}, NewTimeError(input)
	}
	return onDay(now, t), nil
}

// ParseDateTime parses a combined date and time such as "2024-06-01 18:30"
// or "tomorrow 7am". The result is truncated to the minute.
func ParseDateTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewDateTimeError(input)
	}

	if t, ok := parseLayouts(input, dateTimeLayouts, now); ok {
		return truncate(t), nil
	}

	t, err := parseNatural(input, now)
	if err != nil {
		return time.Time{}, NewDateTimeError(input)
	}
	return truncate(t), nil
}

func parseLayouts(input string, layouts []string, now time.Time) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNatural(input string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:         now,
		DateOrder:           dateparser.DMY,
		PreferredDateSource: dateparser.Future,
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, err
	}

	// Keep the wall clock the parser produced, but in now's location.
	t := result.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location()), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

func onDay(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}

// ParseWhen parses a command-line feed time. A bare clock time such as
// "18:30" means today; anything else goes through ParseDateTime.
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, ok := parseLayouts(strings.ReplaceAll(input, " ", ""), timeLayouts, now); ok {
		return onDay(now, t), nil
	}
	return ParseDateTime(input, now)
}
