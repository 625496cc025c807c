package model

import "time"

// FeedSource identifies what triggered a feed.
type FeedSource string

// Feed sources.
const (
	FeedManual    FeedSource = "manual"
	FeedScheduled FeedSource = "scheduled"
)

// FeedEvent records one feed request sent to the device.
type FeedEvent struct {
	Source     FeedSource    `json:"source"`
	At         time.Time     `json:"at"`
	Schedule   *Schedule     `json:"schedule,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// OK reports whether the device answered the request with success.
func (e FeedEvent) OK() bool {
	return e.Error == ""
}

// Label returns a short human-readable label for the event source.
func (e FeedEvent) Label() string {
	switch e.Source {
	case FeedScheduled:
		if e.Schedule != nil {
			return "Scheduled feed (" + e.Schedule.Time + ")"
		}
		return "Scheduled feed"
	case FeedManual:
		return "Manual feed"
	default:
		return "Feed"
	}
}
