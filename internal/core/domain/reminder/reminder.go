package reminder

import (
	"fmt"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"strings"
	"time"
)

type ID int64

// Reminder tracks one fired occurrence of a medication schedule.
type Reminder struct {
	ID                  ID
	UserID              user.ID
	MedicationID        medication.ID
	ScheduleID          schedule.ID
	ScheduledAt         time.Time
	SentAt              c.Optional[time.Time]
	Status              Status
	AttemptCount        uint32
	FollowUpAt          c.Optional[time.Time]
	ConfirmedAt         c.Optional[time.Time]
	ConfirmationMethod  c.Optional[string]
	CaregiverNotified   bool
	CaregiverNotifiedAt c.Optional[time.Time]
	CreatedAt           time.Time
}

func (r *Reminder) Validate() error {
	if r.AttemptCount < 1 {
		return e.NewInvalidStateErrorf("attempt count of reminder %d must be positive", r.ID)
	}
	if r.Status == StatusSent && !r.SentAt.IsPresent {
		return e.NewInvalidStateErrorf("SentAt must be set for sent reminder %d", r.ID)
	}
	if r.Status == StatusConfirmed && !r.ConfirmedAt.IsPresent {
		return e.NewInvalidStateErrorf("ConfirmedAt must be set for confirmed reminder %d", r.ID)
	}
	if r.Status == StatusCaregiverNotified && !r.CaregiverNotified {
		return e.NewInvalidStateErrorf("CaregiverNotified must be set for reminder %d", r.ID)
	}
	if r.CaregiverNotified != r.CaregiverNotifiedAt.IsPresent {
		return e.NewInvalidStateErrorf("CaregiverNotified and CaregiverNotifiedAt disagree for reminder %d", r.ID)
	}
	if r.ConfirmedAt.IsPresent && r.CaregiverNotified {
		return e.NewInvalidStateErrorf("reminder %d is both confirmed and escalated", r.ID)
	}
	return nil
}

// Sent moves a pending reminder to SENT after its first successful dispatch.
func (r *Reminder) Sent(now time.Time, followUpAt time.Time) (UpdateInput, error) {
	if r.Status != StatusPending {
		return UpdateInput{}, r.conflict("send")
	}
	return UpdateInput{
		ID:                 r.ID,
		DoStatusUpdate:     true,
		Status:             StatusSent,
		DoSentAtUpdate:     true,
		SentAt:             c.Some(now),
		DoFollowUpAtUpdate: true,
		FollowUpAt:         c.Some(followUpAt),
	}, nil
}

// DispatchFailed marks a reminder the person was never reached for.
func (r *Reminder) DispatchFailed() (UpdateInput, error) {
	if r.Status != StatusPending && r.Status != StatusSent {
		return UpdateInput{}, r.conflict("fail dispatch of")
	}
	return UpdateInput{
		ID:                 r.ID,
		DoStatusUpdate:     true,
		Status:             StatusMissed,
		DoFollowUpAtUpdate: true,
		FollowUpAt:         c.None[time.Time](),
	}, nil
}

func (r *Reminder) Confirm(now time.Time, method string) (UpdateInput, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return UpdateInput{}, ErrInvalidConfirmationMethod
	}
	switch r.Status {
	case StatusSent:
	case StatusConfirmed:
		return UpdateInput{}, ErrReminderAlreadyConfirmed
	default:
		return UpdateInput{}, r.conflict("confirm")
	}
	return UpdateInput{
		ID:                         r.ID,
		DoStatusUpdate:             true,
		Status:                     StatusConfirmed,
		DoConfirmedAtUpdate:        true,
		ConfirmedAt:                c.Some(now),
		DoConfirmationMethodUpdate: true,
		ConfirmationMethod:         c.Some(method),
		DoFollowUpAtUpdate:         true,
		FollowUpAt:                 c.None[time.Time](),
	}, nil
}

// CanRetry reports whether another dispatch attempt fits in the budget.
func (r *Reminder) CanRetry(maxAttempts uint32) bool {
	return r.Status == StatusSent && r.AttemptCount < maxAttempts
}

// Retried records a successful repeated dispatch.
func (r *Reminder) Retried(now time.Time, followUpAt time.Time, maxAttempts uint32) (UpdateInput, error) {
	if r.Status != StatusSent {
		return UpdateInput{}, r.conflict("retry")
	}
	if !r.CanRetry(maxAttempts) {
		return UpdateInput{}, ErrReminderAttemptsExhausted
	}
	return UpdateInput{
		ID:                   r.ID,
		DoSentAtUpdate:       true,
		SentAt:               c.Some(now),
		DoAttemptCountUpdate: true,
		AttemptCount:         r.AttemptCount + 1,
		DoFollowUpAtUpdate:   true,
		FollowUpAt:           c.Some(followUpAt),
	}, nil
}

// RetryFailed records a repeated dispatch that did not reach the person.
func (r *Reminder) RetryFailed(maxAttempts uint32) (UpdateInput, error) {
	if r.Status != StatusSent {
		return UpdateInput{}, r.conflict("retry")
	}
	if !r.CanRetry(maxAttempts) {
		return UpdateInput{}, ErrReminderAttemptsExhausted
	}
	update, _ := r.DispatchFailed()
	update.DoAttemptCountUpdate = true
	update.AttemptCount = r.AttemptCount + 1
	return update, nil
}

// Missed closes a sent reminder whose attempts ran out.
func (r *Reminder) Missed() (UpdateInput, error) {
	if r.Status != StatusSent {
		return UpdateInput{}, r.conflict("miss")
	}
	return UpdateInput{
		ID:                 r.ID,
		DoStatusUpdate:     true,
		Status:             StatusMissed,
		DoFollowUpAtUpdate: true,
		FollowUpAt:         c.None[time.Time](),
	}, nil
}

func (r *Reminder) CaregiversNotified(now time.Time) (UpdateInput, error) {
	if r.Status != StatusMissed || r.CaregiverNotified {
		return UpdateInput{}, r.conflict("escalate")
	}
	return UpdateInput{
		ID:                        r.ID,
		DoStatusUpdate:            true,
		Status:                    StatusCaregiverNotified,
		DoCaregiverNotifiedUpdate: true,
		CaregiverNotified:         true,
		CaregiverNotifiedAt:       c.Some(now),
	}, nil
}

// Apply copies the fields marked for update into r.
func (r *Reminder) Apply(input UpdateInput) {
	if input.DoStatusUpdate {
		r.Status = input.Status
	}
	if input.DoSentAtUpdate {
		r.SentAt = input.SentAt
	}
	if input.DoAttemptCountUpdate {
		r.AttemptCount = input.AttemptCount
	}
	if input.DoFollowUpAtUpdate {
		r.FollowUpAt = input.FollowUpAt
	}
	if input.DoConfirmedAtUpdate {
		r.ConfirmedAt = input.ConfirmedAt
	}
	if input.DoConfirmationMethodUpdate {
		r.ConfirmationMethod = input.ConfirmationMethod
	}
	if input.DoCaregiverNotifiedUpdate {
		r.CaregiverNotified = input.CaregiverNotified
		r.CaregiverNotifiedAt = input.CaregiverNotifiedAt
	}
}

func (r *Reminder) conflict(action string) error {
	return fmt.Errorf("could not %s reminder %d in status %s: %w", action, r.ID, r.Status, ErrReminderStateConflict)
}

// Policy is the retry and escalation budget of a reminder.
type Policy struct {
	MaxAttempts   uint32
	FollowUpDelay time.Duration
}

func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return e.NewInvalidStateError("max reminder attempts must be at least 1")
	}
	if p.FollowUpDelay <= 0 {
		return e.NewInvalidStateError("caregiver notification delay must be positive")
	}
	return nil
}

type CaregiverNotificationID int64

// CaregiverNotification is the audit record of one escalation call.
type CaregiverNotification struct {
	ID           CaregiverNotificationID
	ReminderID   ID
	CaregiverID  user.CaregiverID
	NotifiedAt   time.Time
	IsSuccessful bool
	Error        c.Optional[string]
}
