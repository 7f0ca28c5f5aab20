package reminder

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	UserID       user.ID
	MedicationID medication.ID
	ScheduleID   schedule.ID
	ScheduledAt  time.Time
	Status       Status
	AttemptCount uint32
	CreatedAt    time.Time
}

type ReadOptions struct {
	UserIDEquals       c.Optional[user.ID]
	MedicationIDEquals c.Optional[medication.ID]
	StatusIn           c.Optional[[]Status]
	ScheduledAtFrom    c.Optional[time.Time]
	FollowUpAtIsSet    c.Optional[bool]
	OrderBy            OrderBy
	Limit              c.Optional[uint]
}

type UpdateInput struct {
	ID                         ID
	DoStatusUpdate             bool
	Status                     Status
	DoSentAtUpdate             bool
	SentAt                     c.Optional[time.Time]
	DoAttemptCountUpdate       bool
	AttemptCount               uint32
	DoFollowUpAtUpdate         bool
	FollowUpAt                 c.Optional[time.Time]
	DoConfirmedAtUpdate        bool
	ConfirmedAt                c.Optional[time.Time]
	DoConfirmationMethodUpdate bool
	ConfirmationMethod         c.Optional[string]
	DoCaregiverNotifiedUpdate  bool
	CaregiverNotified          bool
	CaregiverNotifiedAt        c.Optional[time.Time]
}

type Repository interface {
	// Create fails with ErrReminderAlreadyExists for an occurrence that already has a reminder.
	Create(ctx context.Context, input CreateInput) (Reminder, error)
	// Lock works only within a unit of work.
	Lock(ctx context.Context, id ID) error
	GetByID(ctx context.Context, id ID) (Reminder, error)
	Read(ctx context.Context, options ReadOptions) ([]Reminder, error)
	Update(ctx context.Context, input UpdateInput) (Reminder, error)
}

type CreateCaregiverNotificationInput struct {
	ReminderID   ID
	CaregiverID  user.CaregiverID
	NotifiedAt   time.Time
	IsSuccessful bool
	Error        c.Optional[string]
}

type CaregiverNotificationRepository interface {
	Create(ctx context.Context, input CreateCaregiverNotificationInput) (CaregiverNotification, error)
	ReadByReminderID(ctx context.Context, reminderID ID) ([]CaregiverNotification, error)
}
