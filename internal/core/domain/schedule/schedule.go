package schedule

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"time"
)

type ID int64

// Definition is a recurring time of day, optionally limited to some weekdays,
// at which a medication must be taken.
type Definition struct {
	ID           ID
	MedicationID medication.ID
	At           TimeOfDay
	Weekdays     c.Optional[WeekdaySet]
	IsActive     bool
	CreatedAt    time.Time
}

// Trigger builds the recurrence of the definition in the given location.
func (d *Definition) Trigger(loc *time.Location, empty EmptyWeekdays) Trigger {
	return Trigger{At: d.At, Weekdays: d.Weekdays, Location: loc, EmptyWeekdays: empty}
}

func (d *Definition) JobID() job.ID {
	return job.RecurringID(int64(d.MedicationID), int64(d.ID))
}

// Entry is an active definition joined with its owner, as the catalog hands it out.
type Entry struct {
	Definition Definition
	UserID     user.ID
	Timezone   string
}

// Location returns the owner's timezone, or fallback if it is not set or unknown.
func (e *Entry) Location(fallback *time.Location) *time.Location {
	if e.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

func (e *Entry) Payload() job.ScheduleFiredPayload {
	return job.ScheduleFiredPayload{
		UserID:       int64(e.UserID),
		MedicationID: int64(e.Definition.MedicationID),
		ScheduleID:   int64(e.Definition.ID),
	}
}

// Register upserts the recurring job of the entry.
func (e *Entry) Register(
	ctx context.Context,
	scheduler job.Scheduler,
	fallback *time.Location,
	empty EmptyWeekdays,
) error {
	trigger := e.Definition.Trigger(e.Location(fallback), empty)
	return scheduler.Upsert(ctx, e.Definition.JobID(), trigger, e.Payload())
}
