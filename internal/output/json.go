package output

import (
	"time"

	"github.com/manav03panchal/feedtime/internal/daemon"
	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ScheduleOutput represents a schedule in JSON output.
type ScheduleOutput struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"`
	At        string `json:"at"`
}

// NewScheduleOutput creates a ScheduleOutput from a Schedule.
func NewScheduleOutput(s *model.Schedule) *ScheduleOutput {
	return &ScheduleOutput{
		Date:      s.Date,
		Time:      s.Time,
		Timestamp: s.Timestamp,
		At:        s.At().Format(time.RFC3339),
	}
}

// FeedResponse represents the feed command output in JSON.
type FeedResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// RunResponse represents the run command output in JSON.
type RunResponse struct {
	Status    string            `json:"status"`
	Scheduled []*ScheduleOutput `json:"scheduled"`
	Summary   *daemon.Summary   `json:"summary"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintFeedResult prints a manual feed outcome as JSON. "sent" means the
// request went out but the device did not confirm.
func (j *JSONFormatter) PrintFeedResult(res device.Result) error {
	resp := &FeedResponse{
		Status:     "ok",
		StatusCode: res.StatusCode,
		DurationMs: res.Duration.Milliseconds(),
	}
	if !res.OK() {
		resp.Status = "sent"
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return j.JSON(resp)
}

// PrintRun prints the run command outcome as JSON.
func (j *JSONFormatter) PrintRun(scheduled []*model.Schedule, summary *daemon.Summary) error {
	resp := &RunResponse{
		Status:    "ok",
		Scheduled: make([]*ScheduleOutput, 0, len(scheduled)),
		Summary:   summary,
	}
	for _, s := range scheduled {
		resp.Scheduled = append(resp.Scheduled, NewScheduleOutput(s))
	}
	return j.JSON(resp)
}

// PrintError prints an error as JSON.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(&ErrorResponse{
		Status:     "error",
		Error:      err.Error(),
		Suggestion: errors.GetSuggestion(err),
	})
}
