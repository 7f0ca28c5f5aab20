package jobs

import (
	"context"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	checkreminder "medremind/internal/core/services/check_reminder"
	firereminder "medremind/internal/core/services/fire_reminder"
)

// Router hands scheduler firings to the service owning their payload.
type Router struct {
	log   logging.Logger
	fire  services.Service[firereminder.Input, firereminder.Result]
	check services.Service[checkreminder.Input, checkreminder.Result]
}

func NewRouter(
	log logging.Logger,
	fire services.Service[firereminder.Input, firereminder.Result],
	check services.Service[checkreminder.Input, checkreminder.Result],
) *Router {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if fire == nil {
		panic(e.NewNilArgumentError("fire"))
	}
	if check == nil {
		panic(e.NewNilArgumentError("check"))
	}
	return &Router{log: log, fire: fire, check: check}
}

func (r *Router) HandleJob(ctx context.Context, firing job.Firing) {
	switch payload := firing.Payload.(type) {
	case job.ScheduleFiredPayload:
		r.fire.Run(ctx, firereminder.Input{
			UserID:       user.ID(payload.UserID),
			MedicationID: medication.ID(payload.MedicationID),
			ScheduleID:   schedule.ID(payload.ScheduleID),
			ScheduledAt:  firing.At,
		})
	case job.FollowUpPayload:
		r.check.Run(ctx, checkreminder.Input{ReminderID: reminder.ID(payload.ReminderID)})
	default:
		r.log.Error(
			ctx,
			"Unknown job payload.",
			logging.Entry("jobID", firing.ID),
			logging.Entry("payload", firing.Payload),
		)
	}
}
