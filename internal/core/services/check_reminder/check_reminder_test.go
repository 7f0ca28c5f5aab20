package checkreminder

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	firereminder "medremind/internal/core/services/fire_reminder"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const REMINDER_ID = reminder.ID(1)

var (
	ScheduledAt = time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)
	Policy      = reminder.Policy{MaxAttempts: 3, FollowUpDelay: 15 * time.Minute}
)

type testSuite struct {
	suite.Suite
	now          time.Time
	logger       *logging.FakeLogger
	unitOfWork   *uow.FakeUnitOfWork
	notifier     *reminder.FakeNotifier
	scheduler    *job.FakeScheduler
	locker       *reminder.FakeInstanceLocker
	publisher    *reminder.FakeEventPublisher
	service      services.Service[Input, Result]
	userID       user.ID
	medicationID medication.ID
	scheduleID   schedule.ID
}

func (suite *testSuite) SetupTest() {
	suite.now = ScheduledAt.Add(Policy.FollowUpDelay)
	suite.logger = logging.NewFakeLogger()
	suite.unitOfWork = uow.NewFakeUnitOfWork()
	suite.notifier = reminder.NewFakeNotifier()
	suite.scheduler = job.NewFakeScheduler()
	suite.locker = reminder.NewFakeInstanceLocker()
	suite.publisher = reminder.NewFakeEventPublisher()
	suite.service = New(
		suite.logger,
		suite.unitOfWork,
		suite.notifier,
		suite.scheduler,
		suite.locker,
		suite.publisher,
		Policy,
		func() time.Time { return suite.now },
	)

	ctx := context.Background()
	assert := suite.Require()
	u, err := suite.unitOfWork.Users().Create(ctx, user.CreateUserInput{
		Name:        "Ann",
		PhoneNumber: c.NewPhoneNumber("+15550100"),
		Timezone:    "UTC",
	})
	assert.Nil(err)
	m, err := suite.unitOfWork.Medications().Create(ctx, medication.CreateInput{UserID: u.ID, Name: "Aspirin", Dosage: "100mg"})
	assert.Nil(err)
	d, err := suite.unitOfWork.Schedules().Create(ctx, schedule.CreateInput{MedicationID: m.ID, At: schedule.TimeOfDay{Hour: 8}})
	assert.Nil(err)
	suite.userID, suite.medicationID, suite.scheduleID = u.ID, m.ID, d.ID
}

func (suite *testSuite) addCaregiver(name string) user.Caregiver {
	cg, err := suite.unitOfWork.Caregivers().Create(context.Background(), user.CreateCaregiverInput{
		UserID:      suite.userID,
		Name:        name,
		PhoneNumber: c.NewPhoneNumber("+15550199"),
	})
	suite.Require().Nil(err)
	return cg
}

// seedSent stores a SENT reminder whose follow-up is due at suite.now.
func (suite *testSuite) seedSent(attempt uint32) {
	suite.unitOfWork.Reminders().Reminders = append(suite.unitOfWork.Reminders().Reminders, reminder.Reminder{
		ID:           REMINDER_ID,
		UserID:       suite.userID,
		MedicationID: suite.medicationID,
		ScheduleID:   suite.scheduleID,
		ScheduledAt:  ScheduledAt,
		SentAt:       c.Some(ScheduledAt),
		Status:       reminder.StatusSent,
		AttemptCount: attempt,
		FollowUpAt:   c.Some(suite.now),
	})
}

func (suite *testSuite) stored() reminder.Reminder {
	rem, err := suite.unitOfWork.Reminders().GetByID(context.Background(), REMINDER_ID)
	suite.Require().Nil(err)
	return rem
}

func TestCheckReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestRetrySent() {
	// Setup ---
	s.seedSent(1)

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(OutcomeRetried, result.Outcome)
	assert.Equal(reminder.StatusSent, result.Reminder.Status)
	assert.Equal(uint32(2), result.Reminder.AttemptCount)
	assert.Equal(c.Some(s.now), result.Reminder.SentAt)
	assert.Equal(c.Some(s.now.Add(Policy.FollowUpDelay)), result.Reminder.FollowUpAt)
	assert.Equal(result.Reminder, s.stored())

	assert.Equal(1, s.notifier.SentCount())
	assert.Equal(uint32(2), s.notifier.SentReminders[0].AttemptCount)

	followUp, ok := s.scheduler.OnceJob(job.FollowUpID(int64(REMINDER_ID)))
	assert.True(ok)
	assert.Equal(s.now.Add(Policy.FollowUpDelay), followUp.At)
	assert.Equal([]reminder.Status{reminder.StatusSent}, s.publisher.Statuses())
	assert.True(s.unitOfWork.Context.WasCommitCalled)
}

func (s *testSuite) TestRetryDispatchFailure() {
	// Setup ---
	s.seedSent(2)
	s.notifier.SendReminderError = true

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(OutcomeRetryFailed, result.Outcome)
	assert.Equal(reminder.StatusMissed, s.stored().Status)
	assert.Equal(uint32(3), s.stored().AttemptCount)
	assert.False(s.stored().FollowUpAt.IsPresent)
	assert.Empty(s.scheduler.Once)
	assert.Equal(0, s.notifier.NotifiedCount())
}

func (s *testSuite) TestEscalation() {
	// Setup ---
	s.seedSent(3)
	first := s.addCaregiver("Bob")
	second := s.addCaregiver("Carol")
	inactive := s.addCaregiver("Dave")
	s.unitOfWork.Caregivers().Caregivers[2].IsActive = false
	s.notifier.FailCaregivers[first.ID] = true

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(OutcomeEscalated, result.Outcome)
	assert.Equal(reminder.StatusCaregiverNotified, result.Reminder.Status)
	assert.True(result.Reminder.CaregiverNotified)
	assert.Equal(c.Some(s.now), result.Reminder.CaregiverNotifiedAt)
	assert.False(result.Reminder.FollowUpAt.IsPresent)
	assert.Equal(0, s.notifier.SentCount())
	assert.Equal([]user.CaregiverID{first.ID, second.ID}, s.notifier.NotifiedCaregivers)
	assert.NotContains(s.notifier.NotifiedCaregivers, inactive.ID)

	notifications, err := s.unitOfWork.CaregiverNotifications().ReadByReminderID(context.Background(), REMINDER_ID)
	assert.Nil(err)
	assert.Len(notifications, 2)
	assert.False(notifications[0].IsSuccessful)
	assert.Equal(c.Some(reminder.ErrFakeDispatch.Error()), notifications[0].Error)
	assert.True(notifications[1].IsSuccessful)
	assert.False(notifications[1].Error.IsPresent)
	assert.Equal([]reminder.Status{reminder.StatusCaregiverNotified}, s.publisher.Statuses())
}

func (s *testSuite) TestNoCaregivers() {
	// Setup ---
	s.seedSent(3)

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(OutcomeUnescalated, result.Outcome)
	assert.Equal(reminder.StatusMissed, s.stored().Status)
	assert.False(s.stored().CaregiverNotified)
	assert.Equal(0, s.notifier.NotifiedCount())
	assert.Equal(1, s.logger.Count(logging.WARNING, "Reminder is missed and the user has no caregivers to notify."))
}

func (s *testSuite) TestEscalationRecordFailureDoesNotCallTwice() {
	// Setup ---
	s.seedSent(3)
	s.addCaregiver("Bob")
	s.addCaregiver("Carol")
	s.unitOfWork.CaregiverNotifications().ReturnError = true

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})
	s.unitOfWork.CaregiverNotifications().ReturnError = false
	again, againErr := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

	// Verify ---
	assert := s.Require()
	assert.NotNil(err)
	assert.Nil(againErr)
	assert.Equal(OutcomeSkipped, again.Outcome)
	assert.Equal(2, s.notifier.NotifiedCount())
	assert.Equal(reminder.StatusMissed, s.stored().Status)
	assert.False(s.stored().FollowUpAt.IsPresent)
	assert.Equal([]reminder.Status{reminder.StatusMissed}, s.publisher.Statuses())
}

func (s *testSuite) TestSkipped() {
	cases := []struct {
		id      string
		prepare func(rem *reminder.Reminder)
	}{
		{
			id: "confirmed",
			prepare: func(rem *reminder.Reminder) {
				rem.Status = reminder.StatusConfirmed
				rem.ConfirmedAt = c.Some(ScheduledAt)
				rem.FollowUpAt = c.None[time.Time]()
			},
		},
		{
			id:      "missed",
			prepare: func(rem *reminder.Reminder) { rem.Status = reminder.StatusMissed },
		},
		{
			id: "caregiver notified",
			prepare: func(rem *reminder.Reminder) {
				rem.Status = reminder.StatusCaregiverNotified
				rem.CaregiverNotified = true
			},
		},
		{
			id:      "follow-up superseded by a newer attempt",
			prepare: func(rem *reminder.Reminder) { rem.FollowUpAt = c.Some(ScheduledAt.Add(time.Hour)) },
		},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()
			s.seedSent(1)
			s.addCaregiver("Bob")
			testcase.prepare(&s.unitOfWork.Reminders().Reminders[0])
			before := s.stored()

			result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})

			assert := s.Require()
			assert.Nil(err)
			assert.Equal(OutcomeSkipped, result.Outcome)
			assert.Equal(before, s.stored())
			assert.Equal(0, s.notifier.SentCount())
			assert.Equal(0, s.notifier.NotifiedCount())
			assert.Empty(s.publisher.Events)
			assert.False(s.unitOfWork.Context.WasCommitCalled)
		})
	}
}

func (s *testSuite) TestUnknownReminder() {
	_, err := s.service.Run(context.Background(), Input{ReminderID: 404})

	s.Require().ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestConcurrentFollowUpsEscalateOnce() {
	// Setup ---
	s.seedSent(3)
	s.addCaregiver("Bob")
	s.addCaregiver("Carol")

	// Exercise ---
	var wg sync.WaitGroup
	outcomes := make(chan Outcome, 5)
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.service.Run(context.Background(), Input{ReminderID: REMINDER_ID})
			errs <- err
			outcomes <- result.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)
	close(errs)

	// Verify ---
	assert := s.Require()
	for err := range errs {
		assert.Nil(err)
	}
	escalated := 0
	for outcome := range outcomes {
		if outcome == OutcomeEscalated {
			escalated++
		}
	}
	assert.Equal(1, escalated)
	assert.Equal(2, s.notifier.NotifiedCount())
	assert.Equal(reminder.StatusCaregiverNotified, s.stored().Status)
}

func (s *testSuite) TestFullEscalationRun() {
	// Setup ---
	ctx := context.Background()
	s.addCaregiver("Bob")
	s.addCaregiver("Carol")
	s.now = ScheduledAt
	fire := firereminder.New(
		s.logger,
		s.unitOfWork,
		s.notifier,
		s.scheduler,
		s.locker,
		s.publisher,
		Policy,
		func() time.Time { return s.now },
	)

	// Exercise ---
	fired, err := fire.Run(ctx, firereminder.Input{
		UserID:       s.userID,
		MedicationID: s.medicationID,
		ScheduleID:   s.scheduleID,
		ScheduledAt:  ScheduledAt,
	})
	s.Require().Nil(err)

	outcomes := make([]Outcome, 0, 3)
	for {
		followUp, ok := s.scheduler.OnceJob(job.FollowUpID(int64(fired.Reminder.ID)))
		if !ok {
			break
		}
		delete(s.scheduler.Once, job.FollowUpID(int64(fired.Reminder.ID)))
		s.now = followUp.At
		payload := followUp.Payload.(job.FollowUpPayload)
		result, err := s.service.Run(ctx, Input{ReminderID: reminder.ID(payload.ReminderID)})
		s.Require().Nil(err)
		outcomes = append(outcomes, result.Outcome)
	}

	// Verify ---
	assert := s.Require()
	assert.Equal([]Outcome{OutcomeRetried, OutcomeRetried, OutcomeEscalated}, outcomes)
	assert.Equal(3, s.notifier.SentCount())
	assert.Equal(2, s.notifier.NotifiedCount())
	assert.Equal(
		[]reminder.Status{
			reminder.StatusPending,
			reminder.StatusSent,
			reminder.StatusSent,
			reminder.StatusSent,
			reminder.StatusCaregiverNotified,
		},
		s.publisher.Statuses(),
	)
	final, err := s.unitOfWork.Reminders().GetByID(ctx, fired.Reminder.ID)
	assert.Nil(err)
	assert.Equal(uint32(3), final.AttemptCount)
	assert.Nil(final.Validate())
}
