package job

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNoNextOccurrence = errors.New("trigger has no next occurrence")

// ID identifies a registered job. Registering a job under an existing ID replaces it.
type ID string

func (id ID) String() string {
	return string(id)
}

// RecurringID is the identity of the timer of one medication schedule.
func RecurringID(medicationID int64, scheduleID int64) ID {
	return ID(fmt.Sprintf("medication_%d_schedule_%d", medicationID, scheduleID))
}

// FollowUpID is the identity of the delayed check of one reminder.
func FollowUpID(reminderID int64) ID {
	return ID(fmt.Sprintf("followup_%d", reminderID))
}

type Kind struct {
	v string
}

func (k Kind) String() string {
	return k.v
}

var (
	KindRecurring = Kind{v: "recurring"}
	KindOnce      = Kind{v: "once"}
)

type Trigger interface {
	// Next returns the first due instant strictly after now, or false if there is none.
	Next(now time.Time) (time.Time, bool)
}

type Firing struct {
	ID      ID
	Kind    Kind
	At      time.Time
	Payload any
}

type Handler interface {
	HandleJob(ctx context.Context, firing Firing)
}

type HandlerFunc func(ctx context.Context, firing Firing)

func (f HandlerFunc) HandleJob(ctx context.Context, firing Firing) {
	f(ctx, firing)
}

type Scheduler interface {
	Upsert(ctx context.Context, id ID, trigger Trigger, payload any) error
	Cancel(ctx context.Context, id ID)
	ScheduleOnce(ctx context.Context, id ID, at time.Time, payload any) error
	RecurringIDs() []ID
}

// ScheduleFiredPayload is attached to recurring medication schedule jobs.
type ScheduleFiredPayload struct {
	UserID       int64
	MedicationID int64
	ScheduleID   int64
}

// FollowUpPayload is attached to follow-up jobs.
type FollowUpPayload struct {
	ReminderID int64
}
