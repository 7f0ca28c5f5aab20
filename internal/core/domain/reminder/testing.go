package reminder

import (
	"context"
	"errors"
	"fmt"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"sort"
	"sync"
	"time"
)

type FakeRepository struct {
	Reminders   []Reminder
	ReturnError bool
	Locked      []ID
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (rem Reminder, err error) {
	if r.ReturnError {
		return rem, fmt.Errorf("could not create reminder %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Reminders {
		if existing.ScheduleID == input.ScheduleID && existing.ScheduledAt.Equal(input.ScheduledAt) {
			return rem, ErrReminderAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	rem = Reminder{
		ID:           maxID + 1,
		UserID:       input.UserID,
		MedicationID: input.MedicationID,
		ScheduleID:   input.ScheduleID,
		ScheduledAt:  input.ScheduledAt,
		Status:       input.Status,
		AttemptCount: input.AttemptCount,
		CreatedAt:    input.CreatedAt,
	}
	r.Reminders = append(r.Reminders, rem)
	return rem, nil
}

func (r *FakeRepository) Lock(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Locked = append(r.Locked, id)
	return nil
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (rem Reminder, err error) {
	if r.ReturnError {
		return rem, fmt.Errorf("could not get reminder %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, rem := range r.Reminders {
		if rem.ID == id {
			return rem, nil
		}
	}
	return rem, ErrReminderDoesNotExist
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Reminder, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not read reminders %v", options)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	reminders := make([]Reminder, 0, len(r.Reminders))
	for _, rem := range r.Reminders {
		if options.UserIDEquals.IsPresent && rem.UserID != options.UserIDEquals.Value {
			continue
		}
		if options.MedicationIDEquals.IsPresent && rem.MedicationID != options.MedicationIDEquals.Value {
			continue
		}
		if options.StatusIn.IsPresent && !containsStatus(options.StatusIn.Value, rem.Status) {
			continue
		}
		if options.ScheduledAtFrom.IsPresent && rem.ScheduledAt.Before(options.ScheduledAtFrom.Value) {
			continue
		}
		if options.FollowUpAtIsSet.IsPresent && rem.FollowUpAt.IsPresent != options.FollowUpAtIsSet.Value {
			continue
		}
		reminders = append(reminders, rem)
	}
	switch options.OrderBy {
	case OrderByScheduledAtAsc:
		sort.SliceStable(reminders, func(i, j int) bool {
			return reminders[i].ScheduledAt.Before(reminders[j].ScheduledAt)
		})
	case OrderByScheduledAtDesc:
		sort.SliceStable(reminders, func(i, j int) bool {
			return reminders[i].ScheduledAt.After(reminders[j].ScheduledAt)
		})
	default:
		sort.SliceStable(reminders, func(i, j int) bool { return reminders[i].ID < reminders[j].ID })
	}
	if options.Limit.IsPresent && uint(len(reminders)) > options.Limit.Value {
		reminders = reminders[:options.Limit.Value]
	}
	return reminders, nil
}

func (r *FakeRepository) Update(ctx context.Context, input UpdateInput) (rem Reminder, err error) {
	if r.ReturnError {
		return rem, fmt.Errorf("could not update reminder %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Reminders {
		if r.Reminders[ix].ID == input.ID {
			r.Reminders[ix].Apply(input)
			return r.Reminders[ix], nil
		}
	}
	return rem, ErrReminderDoesNotExist
}

func containsStatus(statuses []Status, status Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type FakeCaregiverNotificationRepository struct {
	Notifications []CaregiverNotification
	ReturnError   bool
	lock          sync.Mutex
}

func NewFakeCaregiverNotificationRepository() *FakeCaregiverNotificationRepository {
	return &FakeCaregiverNotificationRepository{}
}

func (r *FakeCaregiverNotificationRepository) Create(
	ctx context.Context,
	input CreateCaregiverNotificationInput,
) (n CaregiverNotification, err error) {
	if r.ReturnError {
		return n, fmt.Errorf("could not create caregiver notification %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	n = CaregiverNotification{
		ID:           CaregiverNotificationID(len(r.Notifications) + 1),
		ReminderID:   input.ReminderID,
		CaregiverID:  input.CaregiverID,
		NotifiedAt:   input.NotifiedAt,
		IsSuccessful: input.IsSuccessful,
		Error:        input.Error,
	}
	r.Notifications = append(r.Notifications, n)
	return n, nil
}

func (r *FakeCaregiverNotificationRepository) ReadByReminderID(
	ctx context.Context,
	reminderID ID,
) ([]CaregiverNotification, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	notifications := make([]CaregiverNotification, 0)
	for _, n := range r.Notifications {
		if n.ReminderID == reminderID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

var ErrFakeDispatch = errors.New("fake dispatch failure")

type FakeNotifier struct {
	SentReminders       []Reminder
	NotifiedCaregivers  []user.CaregiverID
	SendReminderError   bool
	FailCaregivers      map[user.CaregiverID]bool
	SendReminderHook    func(r Reminder)
	NotifyCaregiverHook func(cg user.Caregiver)
	lock                sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{FailCaregivers: make(map[user.CaregiverID]bool)}
}

func (n *FakeNotifier) SendReminder(ctx context.Context, u user.User, m medication.Medication, r Reminder) error {
	n.lock.Lock()
	n.SentReminders = append(n.SentReminders, r)
	hook := n.SendReminderHook
	fail := n.SendReminderError
	n.lock.Unlock()
	if hook != nil {
		hook(r)
	}
	if fail {
		return ErrFakeDispatch
	}
	return nil
}

func (n *FakeNotifier) NotifyCaregiver(
	ctx context.Context,
	cg user.Caregiver,
	u user.User,
	m medication.Medication,
	scheduledAt time.Time,
) error {
	n.lock.Lock()
	n.NotifiedCaregivers = append(n.NotifiedCaregivers, cg.ID)
	hook := n.NotifyCaregiverHook
	fail := n.FailCaregivers[cg.ID]
	n.lock.Unlock()
	if hook != nil {
		hook(cg)
	}
	if fail {
		return ErrFakeDispatch
	}
	return nil
}

func (n *FakeNotifier) SentCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.SentReminders)
}

func (n *FakeNotifier) NotifiedCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.NotifiedCaregivers)
}

// FakeInstanceLocker serializes all reminders behind a single mutex.
type FakeInstanceLocker struct {
	LockedIDs []ID
	mu        sync.Mutex
	lock      sync.Mutex
}

func NewFakeInstanceLocker() *FakeInstanceLocker {
	return &FakeInstanceLocker{}
}

func (l *FakeInstanceLocker) Lock(id ID) func() {
	l.mu.Lock()
	l.lock.Lock()
	l.LockedIDs = append(l.LockedIDs, id)
	l.lock.Unlock()
	return l.mu.Unlock
}

type FakeEventPublisher struct {
	Events []Event
	lock   sync.Mutex
}

func NewFakeEventPublisher() *FakeEventPublisher {
	return &FakeEventPublisher{}
}

func (p *FakeEventPublisher) Publish(ctx context.Context, event Event) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.Events = append(p.Events, event)
}

func (p *FakeEventPublisher) Statuses() []Status {
	p.lock.Lock()
	defer p.lock.Unlock()
	statuses := make([]Status, len(p.Events))
	for ix, event := range p.Events {
		statuses[ix] = event.Status
	}
	return statuses
}
