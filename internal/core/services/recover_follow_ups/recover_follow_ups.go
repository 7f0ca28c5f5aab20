package recoverfollowups

import (
	"context"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/services"
)

type Input struct{}

type Result struct {
	Recovered int
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  job.Scheduler
}

// New builds the start-up recovery of follow-up jobs lost with the previous process.
func New(log logging.Logger, unitOfWork uow.UnitOfWork, scheduler job.Scheduler) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &service{log: log, unitOfWork: unitOfWork, scheduler: scheduler}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	defer uow.Rollback(ctx)

	reminders, err := uow.Reminders().Read(ctx, reminder.ReadOptions{
		StatusIn:        c.Some([]reminder.Status{reminder.StatusSent}),
		FollowUpAtIsSet: c.Some(true),
		OrderBy:         reminder.OrderByIDAsc,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	for _, rem := range reminders {
		err := s.scheduler.ScheduleOnce(
			ctx,
			job.FollowUpID(int64(rem.ID)),
			rem.FollowUpAt.Value,
			job.FollowUpPayload{ReminderID: int64(rem.ID)},
		)
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
			continue
		}
		result.Recovered++
	}

	s.log.Info(ctx, "Follow-ups have been recovered.", logging.Entry("count", result.Recovered))
	return result, nil
}
