package daemon

import (
	"context"
	"time"

	"github.com/manav03panchal/feedtime/internal/feeder"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/scheduler"
)

// Stop reasons reported in a Summary.
const (
	ReasonSignal  = "signal"
	ReasonContext = "context"
	ReasonEmpty   = "empty"
)

// Summary describes a finished run.
type Summary struct {
	StartedAt time.Time       `json:"started_at"`
	StoppedAt time.Time       `json:"stopped_at"`
	Reason    string          `json:"reason"`
	Remaining int             `json:"remaining"`
	Metrics   MetricsSnapshot `json:"metrics"`
}

// Runner drives a feeder's poller in the foreground.
type Runner struct {
	feeder        *feeder.Feeder
	metrics       *Metrics
	exitWhenEmpty bool
	signals       *SignalHandler

	empty chan struct{}
}

// NewRunner creates a runner for f.
func NewRunner(f *feeder.Feeder) *Runner {
	return &Runner{
		feeder:  f,
		metrics: NewMetrics(),
		signals: NewSignalHandler(),
		empty:   make(chan struct{}, 1),
	}
}

// SetExitWhenEmpty makes Run return once no schedules remain.
func (r *Runner) SetExitWhenEmpty(v bool) {
	r.exitWhenEmpty = v
}

// Metrics returns the run's metrics.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run starts the poller and blocks until a signal arrives, ctx is cancelled,
// or, with exit-when-empty set, the store has drained.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{StartedAt: time.Now()}

	r.feeder.OnFire(r.handleFire)

	r.signals.Setup()
	defer r.signals.Stop()

	if err := r.feeder.Start(); err != nil {
		return nil, err
	}

	logging.Info("runner started", "exit_when_empty", r.exitWhenEmpty)
	if r.exitWhenEmpty {
		r.checkEmpty()
	}

	select {
	case sig := <-r.signals.Channel():
		summary.Reason = ReasonSignal
		logging.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
		summary.Reason = ReasonContext
	case <-r.empty:
		summary.Reason = ReasonEmpty
	}

	r.feeder.Stop()
	r.feeder.Wait()

	remaining, err := r.feeder.Store().Len()
	if err != nil {
		return nil, err
	}
	summary.Remaining = remaining
	summary.StoppedAt = time.Now()
	summary.Metrics = r.metrics.Snapshot()

	logging.Info("runner stopped",
		"reason", summary.Reason,
		"remaining", remaining,
		logging.KeyCount, summary.Metrics.SchedulesFiredTotal)
	return summary, nil
}

func (r *Runner) handleFire(res scheduler.FireResult) {
	r.metrics.RecordFire(res)
	if r.exitWhenEmpty {
		r.checkEmpty()
	}
}

func (r *Runner) checkEmpty() {
	n, err := r.feeder.Store().Len()
	if err != nil || n > 0 {
		return
	}
	select {
	case r.empty <- struct{}{}:
	default:
	}
}
