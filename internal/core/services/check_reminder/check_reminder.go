package checkreminder

import (
	"context"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"time"
)

type Input struct {
	ReminderID reminder.ID
}

type Outcome struct {
	v string
}

func (o Outcome) String() string {
	return o.v
}

var (
	OutcomeSkipped     = Outcome{v: "skipped"}
	OutcomeRetried     = Outcome{v: "retried"}
	OutcomeRetryFailed = Outcome{v: "retry_failed"}
	OutcomeEscalated   = Outcome{v: "escalated"}
	// OutcomeUnescalated means attempts ran out but there was nobody to notify.
	OutcomeUnescalated = Outcome{v: "unescalated"}
)

type Result struct {
	Reminder reminder.Reminder
	Outcome  Outcome
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
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	result.Reminder = rem
	result.Outcome = OutcomeSkipped

	if rem.Status != reminder.StatusSent {
		s.log.Info(
			ctx,
			"Reminder is not awaiting confirmation, skip follow-up.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("status", rem.Status),
		)
		return result, nil
	}
	now := s.now()
	if !rem.FollowUpAt.IsPresent || now.Before(rem.FollowUpAt.Value) {
		s.log.Info(
			ctx,
			"Follow-up is stale, skip.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("followUpAt", rem.FollowUpAt),
		)
		return result, nil
	}

	u, err := uow.Users().GetByID(ctx, rem.UserID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID), logging.Entry("userID", rem.UserID))
		return result, err
	}
	m, err := uow.Medications().GetByID(ctx, rem.MedicationID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID), logging.Entry("medicationID", rem.MedicationID))
		return result, err
	}

	if !rem.CanRetry(s.policy.MaxAttempts) {
		return s.escalate(ctx, uow, u, m, rem)
	}

	result, err = s.retry(ctx, uow, u, m, rem)
	if err != nil {
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}
	s.publisher.Publish(ctx, reminder.NewEvent(result.Reminder, s.now()))

	if result.Outcome == OutcomeRetried {
		err := s.scheduler.ScheduleOnce(
			ctx,
			job.FollowUpID(int64(rem.ID)),
			result.Reminder.FollowUpAt.Value,
			job.FollowUpPayload{ReminderID: int64(rem.ID)},
		)
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		}
	}
	return result, nil
}

func (s *service) retry(
	ctx context.Context,
	uow uow.Context,
	u user.User,
	m medication.Medication,
	rem reminder.Reminder,
) (result Result, err error) {
	attempt := rem
	attempt.AttemptCount++
	sendErr := s.notifier.SendReminder(ctx, u, m, attempt)

	var update reminder.UpdateInput
	now := s.now()
	if sendErr == nil {
		update, err = rem.Retried(now, now.Add(s.policy.FollowUpDelay), s.policy.MaxAttempts)
		result.Outcome = OutcomeRetried
	} else {
		s.log.Error(
			ctx,
			"Reminder retry could not be dispatched.",
			logging.Entry("err", sendErr),
			logging.Entry("reminderID", rem.ID),
			logging.Entry("attempt", attempt.AttemptCount),
		)
		update, err = rem.RetryFailed(s.policy.MaxAttempts)
		result.Outcome = OutcomeRetryFailed
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}

	result.Reminder, err = uow.Reminders().Update(ctx, update)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}
	s.log.Info(
		ctx,
		"Reminder has been retried.",
		logging.Entry("reminderID", rem.ID),
		logging.Entry("attempt", result.Reminder.AttemptCount),
		logging.Entry("status", result.Reminder.Status),
	)
	return result, nil
}

// escalate closes the reminder as missed and notifies every active caregiver once.
// The missed state is committed before any call, so a failure while recording
// the calls can not lead to a second escalation.
func (s *service) escalate(
	ctx context.Context,
	tx uow.Context,
	u user.User,
	m medication.Medication,
	rem reminder.Reminder,
) (result Result, err error) {
	update, err := rem.Missed()
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}
	missed, err := tx.Reminders().Update(ctx, update)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}
	result.Reminder = missed

	caregivers, err := tx.Caregivers().Read(ctx, user.CaregiverReadOptions{
		UserIDEquals:   c.Some(rem.UserID),
		IsActiveEquals: c.Some(true),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}
	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		return result, err
	}

	if len(caregivers) == 0 {
		s.log.Warning(
			ctx,
			"Reminder is missed and the user has no caregivers to notify.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("userID", rem.UserID),
		)
		s.publisher.Publish(ctx, reminder.NewEvent(missed, s.now()))
		result.Outcome = OutcomeUnescalated
		return result, nil
	}

	records := make([]reminder.CreateCaregiverNotificationInput, 0, len(caregivers))
	for _, cg := range caregivers {
		notifyErr := s.notifier.NotifyCaregiver(ctx, cg, u, m, rem.ScheduledAt)
		record := reminder.CreateCaregiverNotificationInput{
			ReminderID:   rem.ID,
			CaregiverID:  cg.ID,
			NotifiedAt:   s.now(),
			IsSuccessful: notifyErr == nil,
		}
		if notifyErr != nil {
			s.log.Error(
				ctx,
				"Caregiver could not be notified.",
				logging.Entry("err", notifyErr),
				logging.Entry("reminderID", rem.ID),
				logging.Entry("caregiverID", cg.ID),
			)
			record.Error = c.Some(notifyErr.Error())
		}
		records = append(records, record)
	}

	result.Reminder, err = s.recordEscalation(ctx, rem.ID, records)
	if err != nil {
		s.publisher.Publish(ctx, reminder.NewEvent(missed, s.now()))
		result.Reminder = missed
		return result, err
	}
	result.Outcome = OutcomeEscalated
	s.publisher.Publish(ctx, reminder.NewEvent(result.Reminder, s.now()))
	s.log.Info(
		ctx,
		"Caregivers have been notified.",
		logging.Entry("reminderID", rem.ID),
		logging.Entry("caregivers", len(caregivers)),
	)
	return result, nil
}

func (s *service) recordEscalation(
	ctx context.Context,
	id reminder.ID,
	records []reminder.CreateCaregiverNotificationInput,
) (rem reminder.Reminder, err error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	defer tx.Rollback(ctx)

	if err := tx.Reminders().Lock(ctx, id); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	rem, err = tx.Reminders().GetByID(ctx, id)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	for _, record := range records {
		if _, err := tx.CaregiverNotifications().Create(ctx, record); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", id), logging.Entry("caregiverID", record.CaregiverID))
			return rem, err
		}
	}
	update, err := rem.CaregiversNotified(s.now())
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	rem, err = tx.Reminders().Update(ctx, update)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return rem, err
	}
	return rem, nil
}
