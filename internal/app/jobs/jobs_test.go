package jobs

import (
	"context"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	checkreminder "medremind/internal/core/services/check_reminder"
	firereminder "medremind/internal/core/services/fire_reminder"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubFire struct {
	inputs []firereminder.Input
}

func (s *stubFire) Run(ctx context.Context, input firereminder.Input) (result firereminder.Result, err error) {
	s.inputs = append(s.inputs, input)
	return result, nil
}

type stubCheck struct {
	inputs []checkreminder.Input
}

func (s *stubCheck) Run(ctx context.Context, input checkreminder.Input) (result checkreminder.Result, err error) {
	s.inputs = append(s.inputs, input)
	return result, nil
}

func TestRouter(t *testing.T) {
	// Setup ---
	at := time.Date(2024, 6, 6, 12, 0, 0, 0, time.UTC)
	log := logging.NewFakeLogger()
	fire := &stubFire{}
	check := &stubCheck{}
	router := NewRouter(log, fire, check)
	ctx := context.Background()

	// Exercise ---
	router.HandleJob(ctx, job.Firing{
		ID:      job.RecurringID(2, 3),
		Kind:    job.KindRecurring,
		At:      at,
		Payload: job.ScheduleFiredPayload{UserID: 1, MedicationID: 2, ScheduleID: 3},
	})
	router.HandleJob(ctx, job.Firing{
		ID:      job.FollowUpID(9),
		Kind:    job.KindOnce,
		At:      at,
		Payload: job.FollowUpPayload{ReminderID: 9},
	})
	router.HandleJob(ctx, job.Firing{ID: job.ID("unknown"), Kind: job.KindOnce, At: at, Payload: "?"})

	// Verify ---
	assert.Equal(t, []firereminder.Input{{UserID: 1, MedicationID: 2, ScheduleID: 3, ScheduledAt: at}}, fire.inputs)
	assert.Equal(t, []checkreminder.Input{{ReminderID: 9}}, check.inputs)
	assert.Equal(t, 1, len(log.Logged))
	assert.Equal(t, logging.ERROR, log.Logged[0].Level)
}
