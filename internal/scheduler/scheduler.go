package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"sort"
	"sync"
	"time"
)

var (
	ErrNoNextOccurrence = job.ErrNoNextOccurrence
	ErrInvalidJob       = errors.New("invalid job")
)

const idleWait = time.Minute

type Options struct {
	Workers   int
	QueueSize int
	// Recurring jobs overdue by more than MaxLateness are skipped, not fired late.
	MaxLateness time.Duration
}

func DefaultOptions() Options {
	return Options{Workers: 8, QueueSize: 256, MaxLateness: 10 * time.Minute}
}

// Scheduler keeps recurring and one-shot jobs in a single timer queue and
// hands due firings to a bounded pool of workers.
type Scheduler struct {
	log     logging.Logger
	handler job.Handler
	now     func() time.Time
	opts    Options

	mu      sync.Mutex
	queue   queue
	entries map[job.ID]*entry

	wake  chan struct{}
	tasks chan job.Firing
}

func New(log logging.Logger, handler job.Handler, now func() time.Time, opts Options) *Scheduler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if handler == nil {
		panic(e.NewNilArgumentError("handler"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}
	return &Scheduler{
		log:     log,
		handler: handler,
		now:     now,
		opts:    opts,
		entries: make(map[job.ID]*entry),
		wake:    make(chan struct{}, 1),
		tasks:   make(chan job.Firing, opts.QueueSize),
	}
}

// Upsert registers a recurring job or atomically replaces the one with the same id.
func (s *Scheduler) Upsert(ctx context.Context, id job.ID, trigger job.Trigger, payload any) error {
	if id == "" || trigger == nil {
		return fmt.Errorf("recurring job %q: %w", id, ErrInvalidJob)
	}

	s.mu.Lock()
	now := s.now()
	if existing, ok := s.entries[id]; ok && existing.kind == job.KindRecurring && !existing.at.After(now) {
		// The due occurrence still fires, the new trigger applies from the next one.
		existing.trigger = trigger
		existing.payload = payload
		at := existing.at
		s.mu.Unlock()

		s.notify()
		s.log.Debug(ctx, "Due recurring job replaced.", logging.Entry("jobID", id), logging.Entry("nextRunAt", at))
		return nil
	}
	next, ok := trigger.Next(now)
	if !ok {
		s.removeLocked(id)
		s.mu.Unlock()
		s.log.Warning(ctx, "Job has no next occurrence, removed.", logging.Entry("jobID", id))
		return fmt.Errorf("recurring job %q: %w", id, ErrNoNextOccurrence)
	}
	s.putLocked(&entry{id: id, kind: job.KindRecurring, at: next, trigger: trigger, payload: payload})
	s.mu.Unlock()

	s.notify()
	s.log.Debug(ctx, "Recurring job registered.", logging.Entry("jobID", id), logging.Entry("nextRunAt", next))
	return nil
}

// ScheduleOnce registers a one-shot job or replaces the one with the same id.
// A past instant fires as soon as possible.
func (s *Scheduler) ScheduleOnce(ctx context.Context, id job.ID, at time.Time, payload any) error {
	if id == "" || at.IsZero() {
		return fmt.Errorf("one-shot job %q: %w", id, ErrInvalidJob)
	}

	s.mu.Lock()
	s.putLocked(&entry{id: id, kind: job.KindOnce, at: at, payload: payload})
	s.mu.Unlock()

	s.notify()
	s.log.Debug(ctx, "One-shot job registered.", logging.Entry("jobID", id), logging.Entry("runAt", at))
	return nil
}

// Cancel removes a job. Unknown and already fired one-shot jobs are ignored.
func (s *Scheduler) Cancel(ctx context.Context, id job.ID) {
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.mu.Unlock()

	if removed {
		s.notify()
		s.log.Debug(ctx, "Job canceled.", logging.Entry("jobID", id))
	}
}

func (s *Scheduler) RecurringIDs() []job.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]job.ID, 0, len(s.entries))
	for id, item := range s.entries {
		if item.kind == job.KindRecurring {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Scheduler) NextRunAt(id job.ID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return item.at, true
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Run fires due jobs until ctx is done. Firings already handed to a worker
// complete even after ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	handlerCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(s.opts.Workers)
	for i := 0; i < s.opts.Workers; i++ {
		go func() {
			defer wg.Done()
			s.work(ctx, handlerCtx)
		}()
	}
	defer wg.Wait()

	s.log.Info(ctx, "Scheduler has started.", logging.Entry("workers", s.opts.Workers), logging.Entry("jobs", s.Len()))

	timer := time.NewTimer(s.untilNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "Scheduler is stopping.", logging.Entry("jobs", s.Len()))
			return nil
		case <-s.wake:
		case <-timer.C:
			for _, firing := range s.popDue(s.now()) {
				select {
				case s.tasks <- firing:
				case <-ctx.Done():
					s.log.Warning(ctx, "Scheduler stopped before job was dispatched.", logging.Entry("jobID", firing.ID))
					return nil
				}
			}
		}
		timer.Reset(s.untilNext())
	}
}

func (s *Scheduler) work(ctx context.Context, handlerCtx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case firing := <-s.tasks:
			s.dispatch(handlerCtx, firing)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, firing job.Firing) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(
				ctx,
				"Job handler panicked.",
				logging.Entry("jobID", firing.ID),
				logging.Entry("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.handler.HandleJob(ctx, firing)
}

// popDue removes due entries from the queue. Recurring entries are put back
// at their next occurrence after now, so missed occurrences are never replayed.
func (s *Scheduler) popDue(now time.Time) []job.Firing {
	s.mu.Lock()
	defer s.mu.Unlock()

	firings := make([]job.Firing, 0)
	for len(s.queue) > 0 && !s.queue[0].at.After(now) {
		item := s.queue[0]
		firing := job.Firing{ID: item.id, Kind: item.kind, At: item.at, Payload: item.payload}

		isLate := s.opts.MaxLateness > 0 && now.Sub(item.at) > s.opts.MaxLateness
		if item.kind == job.KindRecurring && isLate {
			s.log.Warning(
				context.Background(),
				"Recurring job missed its occurrence, skip firing.",
				logging.Entry("jobID", item.id),
				logging.Entry("at", item.at),
			)
		} else {
			firings = append(firings, firing)
		}

		if item.kind == job.KindRecurring {
			if next, ok := item.trigger.Next(now); ok {
				item.at = next
				heap.Fix(&s.queue, item.index)
				continue
			}
		}
		heap.Pop(&s.queue)
		delete(s.entries, item.id)
	}
	return firings
}

func (s *Scheduler) untilNext() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return idleWait
	}
	d := s.queue[0].at.Sub(s.now())
	if d < 0 {
		return 0
	}
	if d > idleWait {
		return idleWait
	}
	return d
}

func (s *Scheduler) putLocked(item *entry) {
	if existing, ok := s.entries[item.id]; ok {
		existing.kind = item.kind
		existing.at = item.at
		existing.trigger = item.trigger
		existing.payload = item.payload
		heap.Fix(&s.queue, existing.index)
		return
	}
	heap.Push(&s.queue, item)
	s.entries[item.id] = item
}

func (s *Scheduler) removeLocked(id job.ID) bool {
	item, ok := s.entries[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, item.index)
	delete(s.entries, id)
	return true
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
