package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeFirer struct {
	calls  atomic.Int32
	result device.Result
	block  chan struct{}
}

func (f *fakeFirer) FeedNow(ctx context.Context) device.Result {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.result
}

type failingStore struct{}

func (failingStore) Due(time.Time) ([]*model.Schedule, error) {
	return nil, errors.New("boom")
}

func (failingStore) RemoveTimestamp(int64) (int, error) {
	return 0, nil
}

func setupTestStore(t *testing.T) *storage.ScheduleStore {
	db, err := storage.Open()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewScheduleStore(db)
}

func setupPoller(t *testing.T, firer *fakeFirer) (*Poller, *storage.ScheduleStore, *fakeClock) {
	store := setupTestStore(t)
	clock := &fakeClock{now: base}
	p := NewPoller(store, firer)
	p.SetClock(clock.Now)
	return p, store, clock
}

func add(t *testing.T, store *storage.ScheduleStore, minutes int) *model.Schedule {
	s := model.NewSchedule(base.Add(time.Duration(minutes) * time.Minute))
	require.NoError(t, store.Add(s))
	return s
}

func TestCheckFiresDueScheduleOnce(t *testing.T) {
	firer := &fakeFirer{result: device.Result{StatusCode: 200}}
	p, store, clock := setupPoller(t, firer)
	s := add(t, store, 5)

	clock.Set(base.Add(5*time.Minute + 20*time.Second))
	results := p.Check(context.Background())

	require.Len(t, results, 1)
	assert.Equal(t, s.Timestamp, results[0].Schedule.Timestamp)
	assert.Equal(t, 1, results[0].Removed)
	assert.NoError(t, results[0].RemoveErr)
	assert.Equal(t, int32(1), firer.calls.Load())

	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// The next check in the same minute finds nothing.
	assert.Empty(t, p.Check(context.Background()))
	assert.Equal(t, int32(1), firer.calls.Load())
}

func TestCheckLeavesOtherMinutesPending(t *testing.T) {
	firer := &fakeFirer{}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 5)

	for _, m := range []int{0, 4, 6, 60 * 24} {
		clock.Set(base.Add(time.Duration(m) * time.Minute))
		assert.Empty(t, p.Check(context.Background()))
	}

	assert.Equal(t, int32(0), firer.calls.Load())
	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckNoCatchUp(t *testing.T) {
	firer := &fakeFirer{}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 5)

	// The 10:05 check never happens.
	clock.Set(base.Add(4 * time.Minute))
	p.Check(context.Background())
	clock.Set(base.Add(6 * time.Minute))
	p.Check(context.Background())

	assert.Equal(t, int32(0), firer.calls.Load())
	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckRemovesEvenWhenDeviceFails(t *testing.T) {
	firer := &fakeFirer{result: device.Result{Err: errors.New("unreachable")}}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 1)

	clock.Set(base.Add(time.Minute))
	results := p.Check(context.Background())

	require.Len(t, results, 1)
	assert.Error(t, results[0].Result.Err)
	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCheckSameMinuteFiresConcurrently(t *testing.T) {
	firer := &fakeFirer{block: make(chan struct{})}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 2)
	add(t, store, 2)
	add(t, store, 3)

	clock.Set(base.Add(2 * time.Minute))

	done := make(chan []FireResult)
	go func() { done <- p.Check(context.Background()) }()

	// Both firings must be in flight at once before either is released.
	require.Eventually(t, func() bool { return firer.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(firer.block)

	results := <-done
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Removed+results[1].Removed)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "10:03", list[0].Time)
}

func TestCheckOnFireHook(t *testing.T) {
	firer := &fakeFirer{result: device.Result{StatusCode: 200}}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 1)

	var mu sync.Mutex
	var seen []FireResult
	p.OnFire(func(r FireResult) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r)
	})

	clock.Set(base.Add(time.Minute))
	p.Check(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Result.OK())
}

func TestCheckStoreError(t *testing.T) {
	firer := &fakeFirer{}
	p := NewPoller(failingStore{}, firer)
	assert.Nil(t, p.Check(context.Background()))
	assert.Equal(t, int32(0), firer.calls.Load())
}

func TestCheckAfterSleepGapStillFiresCurrentMinute(t *testing.T) {
	firer := &fakeFirer{}
	p, store, clock := setupPoller(t, firer)
	add(t, store, 180)

	p.Check(context.Background())
	clock.Set(base.Add(180 * time.Minute))
	results := p.Check(context.Background())

	assert.Len(t, results, 1)
}

func TestStartStop(t *testing.T) {
	p, _, _ := setupPoller(t, &fakeFirer{})

	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	assert.False(t, p.NextRun().IsZero())

	// Second Start is a no-op.
	require.NoError(t, p.Start())
	assert.True(t, p.Running())

	p.Stop()
	assert.False(t, p.Running())
	assert.True(t, p.NextRun().IsZero())

	// Stop on a stopped poller is safe.
	p.Stop()
}

func TestStartInvalidSpec(t *testing.T) {
	p, _, _ := setupPoller(t, &fakeFirer{})
	p.SetSpec("not a spec")

	assert.Error(t, p.Start())
	assert.False(t, p.Running())
}

func TestStartFiresFromCron(t *testing.T) {
	firer := &fakeFirer{}
	p, store, _ := setupPoller(t, firer)
	p.SetClock(func() time.Time { return base.Add(time.Minute) })
	p.SetSpec("* * * * * *")
	add(t, store, 1)

	require.NoError(t, p.Start())
	defer p.Stop()

	require.Eventually(t, func() bool {
		n, err := store.Len()
		return err == nil && n == 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), firer.calls.Load())
}

func TestStartChecksCurrentMinuteImmediately(t *testing.T) {
	firer := &fakeFirer{result: device.Result{StatusCode: 200}}
	p, store, clock := setupPoller(t, firer)
	// Half way through the minute; the next cron tick is in the next minute.
	clock.Set(base.Add(30 * time.Second))
	add(t, store, 0)

	require.NoError(t, p.Start())
	defer p.Stop()

	require.Eventually(t, func() bool {
		n, err := store.Len()
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), firer.calls.Load())
}

func TestTriggerFiresWhileRunning(t *testing.T) {
	firer := &fakeFirer{result: device.Result{StatusCode: 200}}
	p, store, clock := setupPoller(t, firer)
	clock.Set(base.Add(45 * time.Second))

	require.NoError(t, p.Start())
	add(t, store, 0)
	assert.True(t, p.Trigger())

	// Stop waits for the triggered check.
	p.Stop()

	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int32(1), firer.calls.Load())
}

func TestTriggerStopped(t *testing.T) {
	firer := &fakeFirer{}
	p, store, _ := setupPoller(t, firer)
	add(t, store, 0)

	assert.False(t, p.Trigger())
	assert.Equal(t, int32(0), firer.calls.Load())
}

func TestConcurrentChecksFireOnce(t *testing.T) {
	firer := &fakeFirer{result: device.Result{StatusCode: 200}}
	p, store, _ := setupPoller(t, firer)
	add(t, store, 0)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Check(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), firer.calls.Load())
}
