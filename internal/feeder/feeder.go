// Package feeder ties the schedule store, the poller and the device client
// together behind the operations the screens and commands use.
package feeder

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/scheduler"
	"github.com/manav03panchal/feedtime/internal/storage"
)

// Device is the command surface of the feeder hardware.
type Device interface {
	FeedNow(ctx context.Context) device.Result
	RegisterSchedule(ctx context.Context, hour, minute int) device.Result
	Feeding() bool
}

// Feeder owns the pending schedules and fires them through the device.
type Feeder struct {
	store   *storage.ScheduleStore
	device  Device
	poller  *scheduler.Poller
	history *History
	clock   scheduler.Clock

	pending sync.WaitGroup
}

// New creates a feeder. The poller is created but not started.
func New(store *storage.ScheduleStore, dev Device) *Feeder {
	f := &Feeder{
		store:   store,
		device:  dev,
		history: NewHistory(config.Global.History.Size),
		clock:   time.Now,
	}
	f.poller = scheduler.NewPoller(store, dev)
	f.poller.OnFire(f.recordFire)
	return f
}

// SetClock replaces the time source for the feeder and its poller.
func (f *Feeder) SetClock(clock scheduler.Clock) {
	f.clock = clock
	f.poller.SetClock(clock)
}

// Now returns the feeder's current time.
func (f *Feeder) Now() time.Time {
	return f.clock()
}

// Poller returns the poller driving scheduled feeds.
func (f *Feeder) Poller() *scheduler.Poller {
	return f.poller
}

// Store returns the schedule store.
func (f *Feeder) Store() *storage.ScheduleStore {
	return f.store
}

// AddSchedule stores the form's schedule, tells the device about it and
// resets the form. The device registration runs in the background and its
// outcome is only logged.
func (f *Feeder) AddSchedule(ctx context.Context, form *Form) (*model.Schedule, error) {
	s, err := form.Schedule()
	if err != nil {
		return nil, err
	}
	if err := f.store.Add(s); err != nil {
		return nil, err
	}
	form.Reset()

	logger := logging.LoggerFromContext(ctx)
	logger.Info("schedule added",
		logging.KeySchedule, s.String(),
		logging.KeyScheduleTS, s.Timestamp)

	// The next tick is in the next minute, too late for this one.
	if s.IsDue(f.clock()) {
		f.poller.Trigger()
	}

	hour, minute := s.HourOfDay(), s.MinuteOfHour()
	f.pending.Add(1)
	go func() {
		defer f.pending.Done()
		res := f.device.RegisterSchedule(context.WithoutCancel(ctx), hour, minute)
		if res.OK() {
			logger.Debug("schedule registered with device",
				logging.KeyStatus, res.StatusCode,
				logging.KeyDuration, res.Duration.Milliseconds())
			return
		}
		logger.Warn("schedule registration failed",
			logging.KeySchedule, s.String(),
			logging.KeyStatus, res.StatusCode,
			logging.KeyError, res.Err)
	}()

	return s, nil
}

// ScheduleAt validates at against the current time and adds it.
func (f *Feeder) ScheduleAt(ctx context.Context, at time.Time) (*model.Schedule, error) {
	now := f.clock()
	var form Form
	if err := form.SelectDate(at, now); err != nil {
		return nil, err
	}
	if err := form.SelectTime(at, now); err != nil {
		return nil, err
	}
	return f.AddSchedule(ctx, &form)
}

// RemoveSchedule removes the schedule at position i of the sorted list.
func (f *Feeder) RemoveSchedule(i int) (*model.Schedule, error) {
	s, err := f.store.RemoveAt(i)
	if err != nil {
		return nil, err
	}
	logging.Info("schedule removed", logging.KeySchedule, s.String())
	return s, nil
}

// Schedules returns the pending schedules in firing order.
func (f *Feeder) Schedules() ([]*model.Schedule, error) {
	return f.store.List()
}

// FeedNow feeds immediately and records the attempt.
func (f *Feeder) FeedNow(ctx context.Context) device.Result {
	at := f.clock()
	res := f.device.FeedNow(ctx)
	f.history.Add(feedEvent(model.FeedManual, at, nil, res))

	logger := logging.LoggerFromContext(ctx).With(logging.KeySource, model.FeedManual)
	if res.OK() {
		logger.Info("manual feed sent",
			logging.KeyStatus, res.StatusCode,
			logging.KeyDuration, res.Duration.Milliseconds())
	} else {
		logger.Warn("manual feed failed",
			logging.KeyStatus, res.StatusCode,
			logging.KeyError, res.Err)
	}
	return res
}

// Feeding reports whether a feed request is in flight.
func (f *Feeder) Feeding() bool {
	return f.device.Feeding()
}

// History returns recent feed events, newest first.
func (f *Feeder) History() []model.FeedEvent {
	return f.history.List()
}

// OnFire registers fn for every scheduled firing.
func (f *Feeder) OnFire(fn func(scheduler.FireResult)) {
	f.poller.OnFire(fn)
}

// Start starts the poller.
func (f *Feeder) Start() error {
	return f.poller.Start()
}

// Stop stops the poller. Background device registrations are left to finish
// on their own.
func (f *Feeder) Stop() {
	f.poller.Stop()
}

// Wait blocks until background device registrations have finished.
func (f *Feeder) Wait() {
	f.pending.Wait()
}

func (f *Feeder) recordFire(r scheduler.FireResult) {
	f.history.Add(feedEvent(model.FeedScheduled, f.clock(), r.Schedule, r.Result))
}

func feedEvent(source model.FeedSource, at time.Time, s *model.Schedule, res device.Result) model.FeedEvent {
	ev := model.FeedEvent{
		Source:     source,
		At:         at,
		Schedule:   s,
		StatusCode: res.StatusCode,
		Duration:   res.Duration,
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}
