package model

import (
	"fmt"
	"time"
)

// PrefixSchedule is the database key prefix for schedules.
const PrefixSchedule = "schedule"

// Schedule is a single pending feeding.
type Schedule struct {
	Key       string `json:"key"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds, minute resolution
}

// NewSchedule creates a schedule for the minute containing t.
// Date and Time are derived from the truncated instant and never set elsewhere.
func NewSchedule(t time.Time) *Schedule {
	t = TruncateMinute(t)
	return &Schedule{
		Date:      t.Format(DateLayout),
		Time:      t.Format(TimeLayout),
		Timestamp: t.UnixMilli(),
	}
}

// SetKey sets the database key for this schedule.
func (s *Schedule) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this schedule.
func (s *Schedule) GetKey() string {
	return s.Key
}

// At returns the scheduled instant in the local timezone.
func (s *Schedule) At() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Minute returns the scheduled instant truncated to the minute.
func (s *Schedule) Minute() time.Time {
	return TruncateMinute(s.At())
}

// IsDue reports whether the schedule's minute equals now's minute.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.Minute().Equal(TruncateMinute(now))
}

// HourOfDay returns the local hour the schedule fires at.
func (s *Schedule) HourOfDay() int {
	return s.At().Hour()
}

// MinuteOfHour returns the local minute the schedule fires at.
func (s *Schedule) MinuteOfHour() int {
	return s.At().Minute()
}

// String renders the schedule the way the dashboard lists it.
func (s *Schedule) String() string {
	return s.Date + " " + s.Time
}

// ScheduleTimestampPrefix returns the key prefix shared by every schedule
// stored with timestamp ts.
func ScheduleTimestampPrefix(ts int64) string {
	return fmt.Sprintf("%s:%020d:", PrefixSchedule, ts)
}

// GenerateScheduleKey generates a database key for a schedule. The zero-padded
// timestamp keeps key order equal to time order.
func GenerateScheduleKey(ts int64, uuid string) string {
	return ScheduleTimestampPrefix(ts) + uuid
}
