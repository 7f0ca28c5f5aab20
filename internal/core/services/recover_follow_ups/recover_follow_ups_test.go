package recoverfollowups

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	uow "medremind/internal/core/domain/unit_of_work"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecoverFollowUps(t *testing.T) {
	// Setup ---
	at := time.Date(2024, 1, 9, 8, 15, 0, 0, time.UTC)
	unitOfWork := uow.NewFakeUnitOfWork()
	unitOfWork.Reminders().Reminders = []reminder.Reminder{
		{ID: 1, Status: reminder.StatusSent, AttemptCount: 1, FollowUpAt: c.Some(at)},
		{ID: 2, Status: reminder.StatusConfirmed, AttemptCount: 1},
		{ID: 3, Status: reminder.StatusSent, AttemptCount: 2, FollowUpAt: c.Some(at.Add(time.Hour))},
		{ID: 4, Status: reminder.StatusMissed, AttemptCount: 3},
	}
	scheduler := job.NewFakeScheduler()
	service := New(logging.NewFakeLogger(), unitOfWork, scheduler)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(2, result.Recovered)
	assert.Len(scheduler.Once, 2)
	first, ok := scheduler.OnceJob(job.FollowUpID(1))
	assert.True(ok)
	assert.Equal(at, first.At)
	assert.Equal(job.FollowUpPayload{ReminderID: 1}, first.Payload)
	third, ok := scheduler.OnceJob(job.FollowUpID(3))
	assert.True(ok)
	assert.Equal(at.Add(time.Hour), third.At)
}

func TestRecoverFollowUpsReadError(t *testing.T) {
	unitOfWork := uow.NewFakeUnitOfWork()
	unitOfWork.Reminders().ReturnError = true
	scheduler := job.NewFakeScheduler()
	service := New(logging.NewFakeLogger(), unitOfWork, scheduler)

	_, err := service.Run(context.Background(), Input{})

	assert := require.New(t)
	assert.NotNil(err)
	assert.Empty(scheduler.Once)
}
