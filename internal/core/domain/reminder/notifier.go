package reminder

import (
	"context"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"time"
)

// Notifier reaches people. A nil error means the dispatch succeeded.
type Notifier interface {
	// SendReminder may be called several times for one reminder, every call is a new attempt.
	SendReminder(ctx context.Context, u user.User, m medication.Medication, r Reminder) error
	NotifyCaregiver(
		ctx context.Context,
		cg user.Caregiver,
		u user.User,
		m medication.Medication,
		scheduledAt time.Time,
	) error
}

// InstanceLocker serializes transitions of one reminder inside the process.
type InstanceLocker interface {
	Lock(id ID) (unlock func())
}

type Event struct {
	ReminderID   ID
	UserID       user.ID
	MedicationID medication.ID
	Status       Status
	AttemptCount uint32
	At           time.Time
}

func NewEvent(r Reminder, at time.Time) Event {
	return Event{
		ReminderID:   r.ID,
		UserID:       r.UserID,
		MedicationID: r.MedicationID,
		Status:       r.Status,
		AttemptCount: r.AttemptCount,
		At:           at,
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
