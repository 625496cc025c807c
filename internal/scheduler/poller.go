// Package scheduler fires due feeding schedules once a minute.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/model"
)

// Clock returns the current time.
type Clock func() time.Time

// Firer issues an immediate feed.
type Firer interface {
	FeedNow(ctx context.Context) device.Result
}

// Store is the part of the schedule store the poller needs.
type Store interface {
	Due(now time.Time) ([]*model.Schedule, error)
	RemoveTimestamp(ts int64) (int, error)
}

// FireResult reports what happened to one due schedule.
type FireResult struct {
	Schedule  *model.Schedule
	Result    device.Result
	Removed   int
	RemoveErr error
}

// Poller checks the store on a fixed wall-clock interval and fires every
// schedule whose minute has arrived.
type Poller struct {
	store Store
	firer Firer

	// checkMu serializes checks so a minute is never fired twice.
	checkMu sync.Mutex
	checks  sync.WaitGroup

	mu             sync.Mutex
	cron           *cron.Cron
	clock          Clock
	spec           string
	sleepThreshold time.Duration
	lastCheck      time.Time
	onFire         []func(FireResult)
}

// NewPoller creates a poller using the global scheduler configuration.
func NewPoller(store Store, firer Firer) *Poller {
	return &Poller{
		store:          store,
		firer:          firer,
		clock:          time.Now,
		spec:           config.Global.Scheduler.PollSpec,
		sleepThreshold: config.Global.Scheduler.SleepThreshold,
	}
}

// SetClock replaces the time source used by Check.
func (p *Poller) SetClock(clock Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
}

// SetSpec sets the cron spec (with seconds) used by the next Start.
func (p *Poller) SetSpec(spec string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spec = spec
}

// OnFire registers fn to receive every fire result. Hooks run on the
// firing goroutine.
func (p *Poller) OnFire(fn func(FireResult)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFire = append(p.onFire, fn)
}

// Start begins polling and runs one check right away, so a schedule for the
// current minute is not left behind until the first tick of the next one.
// Calling Start on a running poller is a no-op.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return nil
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(p.spec, func() {
		p.Check(logging.NewTraceContext(context.Background()))
	}); err != nil {
		return fmt.Errorf("failed to add poll job %q: %w", p.spec, err)
	}

	p.lastCheck = time.Time{}
	p.cron = c
	c.Start()
	p.checkAsync()

	logging.DebugLog("poller started", "spec", p.spec)
	return nil
}

// Trigger runs an extra check in the background. It reports false and does
// nothing when the poller is stopped.
func (p *Poller) Trigger() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron == nil {
		return false
	}
	p.checkAsync()
	return true
}

// checkAsync must be called with p.mu held and the poller running.
func (p *Poller) checkAsync() {
	p.checks.Add(1)
	go func() {
		defer p.checks.Done()
		p.Check(logging.NewTraceContext(context.Background()))
	}()
}

// Stop halts polling and waits for a running check to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	p.checks.Wait()
	logging.DebugLog("poller stopped")
}

// Running reports whether the poller is started.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cron != nil
}

// NextRun returns the next scheduled check, or the zero time when stopped.
func (p *Poller) NextRun() time.Time {
	p.mu.Lock()
	c := p.cron
	p.mu.Unlock()

	if c == nil {
		return time.Time{}
	}
	entries := c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Check runs one pass: every schedule due in the current minute is fed on
// its own goroutine and then removed by timestamp, whatever the device
// answered. Minutes that passed without a check are never fired later.
// Check blocks until every firing is done.
func (p *Poller) Check(ctx context.Context) []FireResult {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()

	p.mu.Lock()
	now := model.TruncateMinute(p.clock())
	gap := now.Sub(p.lastCheck)
	stale := !p.lastCheck.IsZero() && gap > p.sleepThreshold
	p.lastCheck = now
	hooks := append([]func(FireResult){}, p.onFire...)
	p.mu.Unlock()

	logger := logging.LoggerFromContext(ctx)
	if stale {
		logger.Info("poll gap exceeded sleep threshold; missed minutes are not replayed",
			"gap", gap.Round(time.Second).String())
	}

	due, err := p.store.Due(now)
	if err != nil {
		logger.Error("failed to read due schedules", logging.KeyError, err)
		return nil
	}
	if len(due) == 0 {
		return nil
	}

	logger.Debug("firing due schedules", logging.KeyCount, len(due))

	results := make([]FireResult, len(due))
	var wg sync.WaitGroup
	for i, s := range due {
		wg.Add(1)
		go func(i int, s *model.Schedule) {
			defer wg.Done()
			results[i] = p.fire(ctx, s)
			for _, fn := range hooks {
				fn(results[i])
			}
		}(i, s)
	}
	wg.Wait()

	return results
}

func (p *Poller) fire(ctx context.Context, s *model.Schedule) FireResult {
	logger := logging.LoggerFromContext(ctx).With(logging.KeyScheduleTS, s.Timestamp)

	res := p.firer.FeedNow(ctx)
	if res.OK() {
		logger.Info("scheduled feed sent",
			logging.KeySchedule, s.String(),
			logging.KeyStatus, res.StatusCode,
			logging.KeyDuration, res.Duration.Milliseconds())
	} else {
		logger.Warn("scheduled feed failed",
			logging.KeySchedule, s.String(),
			logging.KeyStatus, res.StatusCode,
			logging.KeyError, res.Err)
	}

	removed, err := p.store.RemoveTimestamp(s.Timestamp)
	if err != nil {
		logger.Error("failed to remove fired schedule", logging.KeyError, err)
	}

	return FireResult{
		Schedule:  s,
		Result:    res,
		Removed:   removed,
		RemoveErr: err,
	}
}
