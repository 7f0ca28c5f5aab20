package confirmreminder

import (
	"context"
	"errors"
	"fmt"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/services"
	"time"
)

type Input struct {
	ReminderID reminder.ID
	Method     string
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("confirm-reminder::%d", i.ReminderID)
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  job.Scheduler
	locker     reminder.InstanceLocker
	publisher  reminder.EventPublisher
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler job.Scheduler,
	locker reminder.InstanceLocker,
	publisher reminder.EventPublisher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	if locker == nil {
		panic(e.NewNilArgumentError("locker"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		scheduler:  scheduler,
		locker:     locker,
		publisher:  publisher,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	unlock := s.locker.Lock(input.ReminderID)
	defer unlock()

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	if err := uow.Reminders().Lock(ctx, input.ReminderID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	rem, err := uow.Reminders().GetByID(ctx, input.ReminderID)
	if errors.Is(err, reminder.ErrReminderDoesNotExist) {
		s.log.Info(ctx, "Reminder does not exist.", logging.Entry("input", input))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	result.Reminder = rem

	update, err := rem.Confirm(s.now(), input.Method)
	if errors.Is(err, reminder.ErrReminderAlreadyConfirmed) {
		s.log.Info(ctx, "Reminder is already confirmed.", logging.Entry("input", input))
		return result, nil
	}
	if err != nil {
		s.log.Info(
			ctx,
			"Reminder could not be confirmed.",
			logging.Entry("input", input),
			logging.Entry("status", rem.Status),
			logging.Entry("err", err),
		)
		return result, err
	}

	result.Reminder, err = uow.Reminders().Update(ctx, update)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.scheduler.Cancel(ctx, job.FollowUpID(int64(rem.ID)))
	s.publisher.Publish(ctx, reminder.NewEvent(result.Reminder, s.now()))
	s.log.Info(ctx, "Reminder has been confirmed.", logging.Entry("input", input))
	return result, nil
}
