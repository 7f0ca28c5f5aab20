package response

import (
	"medremind/internal/core/domain/reminder"
	"time"
)

type Reminder struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	MedicationID        int64      `json:"medication_id"`
	ScheduleID          int64      `json:"schedule_id"`
	ScheduledAt         time.Time  `json:"scheduled_at"`
	SentAt              *time.Time `json:"sent_at"`
	Status              string     `json:"status"`
	AttemptCount        uint32     `json:"attempt_count"`
	ConfirmedAt         *time.Time `json:"confirmed_at"`
	ConfirmationMethod  *string    `json:"confirmation_method"`
	CaregiverNotified   bool       `json:"caregiver_notified"`
	CaregiverNotifiedAt *time.Time `json:"caregiver_notified_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (r *Reminder) FromDomainType(dr reminder.Reminder) {
	r.ID = int64(dr.ID)
	r.UserID = int64(dr.UserID)
	r.MedicationID = int64(dr.MedicationID)
	r.ScheduleID = int64(dr.ScheduleID)
	r.ScheduledAt = dr.ScheduledAt
	if dr.SentAt.IsPresent {
		sentAt := dr.SentAt.Value
		r.SentAt = &sentAt
	}
	r.Status = dr.Status.String()
	r.AttemptCount = dr.AttemptCount
	if dr.ConfirmedAt.IsPresent {
		confirmedAt := dr.ConfirmedAt.Value
		r.ConfirmedAt = &confirmedAt
	}
	if dr.ConfirmationMethod.IsPresent {
		method := dr.ConfirmationMethod.Value
		r.ConfirmationMethod = &method
	}
	r.CaregiverNotified = dr.CaregiverNotified
	if dr.CaregiverNotifiedAt.IsPresent {
		notifiedAt := dr.CaregiverNotifiedAt.Value
		r.CaregiverNotifiedAt = &notifiedAt
	}
	r.CreatedAt = dr.CreatedAt
}
