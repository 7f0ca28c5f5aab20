package eventpublisher

import (
	"context"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	event := reminder.Event{
		ReminderID:   7,
		UserID:       1,
		MedicationID: 2,
		Status:       reminder.StatusCaregiverNotified,
		AttemptCount: 3,
		At:           time.Date(2024, 1, 15, 8, 45, 0, 0, time.UTC),
	}

	data, err := encode(event)

	require.Nil(t, err)
	require.JSONEq(
		t,
		`{"reminder_id":7,"user_id":1,"medication_id":2,"status":"CAREGIVER_NOTIFIED","attempt_count":3,"at":"2024-01-15T08:45:00Z"}`,
		string(data),
	)
}

func TestPublishCreatesStream(t *testing.T) {
	// Setup ---
	server := sse.New()
	server.AutoReplay = false
	defer server.Close()
	log := logging.NewFakeLogger()

	// Exercise ---
	publisher := NewSSE(log, server)
	publisher.Publish(context.Background(), reminder.Event{ReminderID: 1, Status: reminder.StatusSent})

	// Verify ---
	require.True(t, server.StreamExists(STREAM))
	require.Equal(t, 1, log.Count(logging.DEBUG, "Reminder event has been published."))
}

func TestMultiPublishesToAll(t *testing.T) {
	first := reminder.NewFakeEventPublisher()
	second := reminder.NewFakeEventPublisher()
	multi := Multi{first, second}

	multi.Publish(context.Background(), reminder.Event{ReminderID: 1, Status: reminder.StatusConfirmed})

	require.Equal(t, []reminder.Status{reminder.StatusConfirmed}, first.Statuses())
	require.Equal(t, []reminder.Status{reminder.StatusConfirmed}, second.Statuses())
}
