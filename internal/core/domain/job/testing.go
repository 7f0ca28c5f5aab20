package job

import (
	"context"
	"errors"
	"sync"
	"time"
)

type FakeRecurringJob struct {
	Trigger Trigger
	Payload any
}

type FakeOnceJob struct {
	At      time.Time
	Payload any
}

type FakeScheduler struct {
	Recurring   map[ID]FakeRecurringJob
	Once        map[ID]FakeOnceJob
	Canceled    []ID
	UpsertCount int
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{
		Recurring: make(map[ID]FakeRecurringJob),
		Once:      make(map[ID]FakeOnceJob),
	}
}

func (s *FakeScheduler) Upsert(ctx context.Context, id ID, trigger Trigger, payload any) error {
	if s.ReturnError {
		return errors.New("could not upsert job")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.UpsertCount++
	if _, ok := trigger.Next(time.Now()); !ok {
		delete(s.Recurring, id)
		return ErrNoNextOccurrence
	}
	s.Recurring[id] = FakeRecurringJob{Trigger: trigger, Payload: payload}
	return nil
}

func (s *FakeScheduler) Cancel(ctx context.Context, id ID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Canceled = append(s.Canceled, id)
	delete(s.Recurring, id)
	delete(s.Once, id)
}

func (s *FakeScheduler) ScheduleOnce(ctx context.Context, id ID, at time.Time, payload any) error {
	if s.ReturnError {
		return errors.New("could not schedule job")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Once[id] = FakeOnceJob{At: at, Payload: payload}
	return nil
}

func (s *FakeScheduler) RecurringIDs() []ID {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]ID, 0, len(s.Recurring))
	for id := range s.Recurring {
		ids = append(ids, id)
	}
	return ids
}

func (s *FakeScheduler) OnceJob(id ID) (FakeOnceJob, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	j, ok := s.Once[id]
	return j, ok
}

func (s *FakeScheduler) WasCanceled(id ID) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, canceled := range s.Canceled {
		if canceled == id {
			return true
		}
	}
	return false
}
