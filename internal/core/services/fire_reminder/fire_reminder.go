package firereminder

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"time"
)

type Input struct {
	UserID       user.ID
	MedicationID medication.ID
	ScheduleID   schedule.ID
	ScheduledAt  time.Time
}

type Result struct {
	Reminder  reminder.Reminder
	IsSkipped bool
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	notifier   reminder.Notifier
	scheduler  job.Scheduler
	locker     reminder.InstanceLocker
	publisher  reminder.EventPublisher
	policy     reminder.Policy
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	notifier reminder.Notifier,
	scheduler job.Scheduler,
	locker reminder.InstanceLocker,
	publisher reminder.EventPublisher,
	policy reminder.Policy,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
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
	if err := policy.Validate(); err != nil {
		panic(err)
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		notifier:   notifier,
		scheduler:  scheduler,
		locker:     locker,
		publisher:  publisher,
		policy:     policy,
		now:        now,
	}
}

type target struct {
	user       user.User
	medication medication.Medication
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	created, tgt, err := s.create(ctx, input)
	if err != nil {
		return result, err
	}
	if !created.IsPresent {
		result.IsSkipped = true
		return result, nil
	}
	rem := created.Value
	s.publisher.Publish(ctx, reminder.NewEvent(rem, s.now()))

	unlock := s.locker.Lock(rem.ID)
	defer unlock()

	sendErr := s.notifier.SendReminder(ctx, tgt.user, tgt.medication, rem)
	if sendErr != nil {
		s.log.Error(
			ctx,
			"Reminder could not be dispatched.",
			logging.Entry("err", sendErr),
			logging.Entry("reminderID", rem.ID),
			logging.Entry("input", input),
		)
	}

	rem, err = s.complete(ctx, rem.ID, sendErr)
	if err != nil {
		return result, err
	}
	s.publisher.Publish(ctx, reminder.NewEvent(rem, s.now()))

	if rem.Status == reminder.StatusSent {
		s.scheduleFollowUp(ctx, rem)
	}

	result.Reminder = rem
	return result, nil
}

// create persists the PENDING reminder of the occurrence, or skips the firing
// when its catalog entries are gone or the occurrence already has a reminder.
func (s *service) create(ctx context.Context, input Input) (result c.Optional[reminder.Reminder], tgt target, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, tgt, err
	}
	defer uow.Rollback(ctx)

	tgt, ok, err := s.resolve(ctx, uow, input)
	if err != nil || !ok {
		return result, tgt, err
	}

	rem, err := uow.Reminders().Create(ctx, reminder.CreateInput{
		UserID:       input.UserID,
		MedicationID: input.MedicationID,
		ScheduleID:   input.ScheduleID,
		ScheduledAt:  input.ScheduledAt,
		Status:       reminder.StatusPending,
		AttemptCount: 1,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, reminder.ErrReminderAlreadyExists) {
		s.log.Info(ctx, "Occurrence already has a reminder, skip firing.", logging.Entry("input", input))
		return result, tgt, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, tgt, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, tgt, err
	}

	s.log.Info(ctx, "Reminder has been created.", logging.Entry("reminderID", rem.ID), logging.Entry("input", input))
	return c.Some(rem), tgt, nil
}

func (s *service) resolve(ctx context.Context, uow uow.Context, input Input) (tgt target, ok bool, err error) {
	def, err := uow.Schedules().GetByID(ctx, input.ScheduleID)
	if errors.Is(err, schedule.ErrScheduleDoesNotExist) {
		s.log.Warning(ctx, "Schedule does not exist, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return tgt, false, err
	}
	if !def.IsActive || def.MedicationID != input.MedicationID {
		s.log.Warning(ctx, "Schedule is not active, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}

	tgt.medication, err = uow.Medications().GetByID(ctx, input.MedicationID)
	if errors.Is(err, medication.ErrMedicationDoesNotExist) {
		s.log.Warning(ctx, "Medication does not exist, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return tgt, false, err
	}
	if !tgt.medication.IsActive || tgt.medication.UserID != input.UserID {
		s.log.Warning(ctx, "Medication is not active, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}

	tgt.user, err = uow.Users().GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Warning(ctx, "User does not exist, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return tgt, false, err
	}
	if !tgt.user.IsActive {
		s.log.Warning(ctx, "User is not active, skip firing.", logging.Entry("input", input))
		return tgt, false, nil
	}
	return tgt, true, nil
}

// complete records the outcome of the first dispatch.
func (s *service) complete(ctx context.Context, id reminder.ID, sendErr error) (rem reminder.Reminder, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	defer uow.Rollback(ctx)

	if err := uow.Reminders().Lock(ctx, id); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	rem, err = uow.Reminders().GetByID(ctx, id)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}

	var update reminder.UpdateInput
	if sendErr == nil {
		now := s.now()
		update, err = rem.Sent(now, now.Add(s.policy.FollowUpDelay))
	} else {
		update, err = rem.DispatchFailed()
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id), logging.Entry("status", rem.Status))
		return rem, err
	}

	rem, err = uow.Reminders().Update(ctx, update)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}

	if rem.Status == reminder.StatusSent {
		s.log.Info(ctx, "Reminder has been sent.", logging.Entry("reminderID", id), logging.Entry("followUpAt", rem.FollowUpAt))
	} else {
		s.log.Warning(ctx, "Reminder is missed due to dispatch failure.", logging.Entry("reminderID", id))
	}
	return rem, nil
}

func (s *service) scheduleFollowUp(ctx context.Context, rem reminder.Reminder) {
	err := s.scheduler.ScheduleOnce(
		ctx,
		job.FollowUpID(int64(rem.ID)),
		rem.FollowUpAt.Value,
		job.FollowUpPayload{ReminderID: int64(rem.ID)},
	)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
	}
}
