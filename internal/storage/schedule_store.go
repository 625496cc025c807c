package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/model"
)

// Observer receives the sorted schedule list after every mutation.
type Observer func([]*model.Schedule)

// ScheduleStore keeps pending schedules in ascending timestamp order.
//
// Order comes from the key layout: the zero-padded timestamp sorts
// lexicographically, and the UUIDv7 suffix keeps same-minute entries in
// insertion order.
type ScheduleStore struct {
	db *DB

	mu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// NewScheduleStore creates a store on top of db.
func NewScheduleStore(db *DB) *ScheduleStore {
	return &ScheduleStore{
		db:        db,
		observers: make(map[int]Observer),
	}
}

func newSchedule() *model.Schedule {
	return &model.Schedule{}
}

func schedulePrefix() string {
	return model.PrefixSchedule + ":"
}

// Add inserts a schedule. Its Key is always regenerated.
func (s *ScheduleStore) Add(sched *model.Schedule) error {
	id, err := uuid.NewV7()
	if err != nil {
		return errors.NewSystemErrorWithOp("add schedule", "failed to generate key", err)
	}

	s.mu.Lock()
	sched.Key = model.GenerateScheduleKey(sched.Timestamp, id.String())
	err = s.db.Set(sched)
	var list []*model.Schedule
	if err == nil {
		list, err = s.list()
	}
	s.mu.Unlock()

	if err != nil {
		return errors.NewSystemErrorWithOp("add schedule", "failed to store schedule", err)
	}
	s.notify(list)
	return nil
}

// RemoveAt removes the schedule at position i of the sorted list.
func (s *ScheduleStore) RemoveAt(i int) (*model.Schedule, error) {
	s.mu.Lock()
	list, err := s.list()
	if err != nil {
		s.mu.Unlock()
		return nil, errors.NewSystemErrorWithOp("remove schedule", "failed to read schedules", err)
	}
	if i < 0 || i >= len(list) {
		s.mu.Unlock()
		return nil, errors.ErrScheduleIndex
	}

	removed := list[i]
	if err := s.db.Delete(removed.Key); err != nil {
		s.mu.Unlock()
		return nil, errors.NewSystemErrorWithOp("remove schedule", "failed to delete schedule", err)
	}
	list = append(list[:i:i], list[i+1:]...)
	s.mu.Unlock()

	s.notify(list)
	return removed, nil
}

// RemoveTimestamp removes every schedule whose timestamp equals ts and
// returns how many were removed.
func (s *ScheduleStore) RemoveTimestamp(ts int64) (int, error) {
	s.mu.Lock()
	keys, err := s.db.ListByPrefix(model.ScheduleTimestampPrefix(ts))
	if err == nil {
		err = s.db.DeleteKeys(keys)
	}
	var list []*model.Schedule
	if err == nil && len(keys) > 0 {
		list, err = s.list()
	}
	s.mu.Unlock()

	if err != nil {
		return 0, errors.NewSystemErrorWithOp("remove schedule", "failed to delete schedules", err)
	}
	if len(keys) > 0 {
		s.notify(list)
	}
	return len(keys), nil
}

// List returns all schedules in ascending timestamp order.
func (s *ScheduleStore) List() ([]*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// Len returns the number of pending schedules.
func (s *ScheduleStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.db.ListByPrefix(schedulePrefix())
	return len(keys), err
}

// Due returns the schedules whose minute equals now's minute.
func (s *ScheduleStore) Due(now time.Time) ([]*model.Schedule, error) {
	ts := model.TruncateMinute(now).UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	return GetAllByPrefix(s.db, model.ScheduleTimestampPrefix(ts), newSchedule)
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the registration.
func (s *ScheduleStore) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// list must be called with mu held.
func (s *ScheduleStore) list() ([]*model.Schedule, error) {
	list, err := GetAllByPrefix(s.db, schedulePrefix(), newSchedule)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Schedule{}
	}
	return list, nil
}

// notify is called without mu held so observers may call back into the store.
func (s *ScheduleStore) notify(list []*model.Schedule) {
	s.obsMu.Lock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(list)
	}
}
