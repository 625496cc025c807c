package daemon

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/manav03panchal/feedtime/internal/scheduler"
)

// Metrics tracks feed outcomes for a run.
type Metrics struct {
	// Counters
	schedulesFired atomic.Int64
	feedsFailed    atomic.Int64
	removeErrors   atomic.Int64

	mu            sync.RWMutex
	lastLatencyMs int64
	lastFireAt    time.Time
	lastError     string
	lastErrorAt   time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot represents a point-in-time view of metrics.
type MetricsSnapshot struct {
	SchedulesFiredTotal int64      `json:"schedules_fired_total"`
	FeedsFailedTotal    int64      `json:"feeds_failed_total"`
	RemoveErrorsTotal   int64      `json:"remove_errors_total"`
	LastLatencyMs       int64      `json:"last_latency_ms"`
	LastFireAt          *time.Time `json:"last_fire_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	LastErrorAt         *time.Time `json:"last_error_at,omitempty"`
}

// Snapshot returns a copy of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		SchedulesFiredTotal: m.schedulesFired.Load(),
		FeedsFailedTotal:    m.feedsFailed.Load(),
		RemoveErrorsTotal:   m.removeErrors.Load(),
		LastLatencyMs:       m.lastLatencyMs,
		LastError:           m.lastError,
	}

	if !m.lastFireAt.IsZero() {
		t := m.lastFireAt
		snap.LastFireAt = &t
	}
	if !m.lastErrorAt.IsZero() {
		t := m.lastErrorAt
		snap.LastErrorAt = &t
	}

	return snap
}

// RecordFire records one poller firing.
func (m *Metrics) RecordFire(r scheduler.FireResult) {
	m.schedulesFired.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFireAt = time.Now()
	m.lastLatencyMs = r.Result.Duration.Milliseconds()

	if !r.Result.OK() {
		m.feedsFailed.Add(1)
		if r.Result.Err != nil {
			m.lastError = r.Result.Err.Error()
			m.lastErrorAt = m.lastFireAt
		}
	}
	if r.RemoveErr != nil {
		m.removeErrors.Add(1)
		m.lastError = r.RemoveErr.Error()
		m.lastErrorAt = m.lastFireAt
	}
}
