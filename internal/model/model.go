// Package model defines the domain models for feedtime.
package model

import "time"

// Model is the interface that all stored models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// Display layouts for schedules. DateLayout renders like "Saturday, 01/06/2024".
const (
	DateLayout = "Monday, 02/01/2006"
	TimeLayout = "15:04"
)

// TruncateMinute drops seconds and sub-seconds from t, keeping its location.
func TruncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
