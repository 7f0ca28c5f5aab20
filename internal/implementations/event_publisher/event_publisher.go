package eventpublisher

import (
	"context"
	"encoding/json"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	"time"

	"github.com/r3labs/sse/v2"
)

const STREAM = "reminders"

type eventMessage struct {
	ReminderID   int64     `json:"reminder_id"`
	UserID       int64     `json:"user_id"`
	MedicationID int64     `json:"medication_id"`
	Status       string    `json:"status"`
	AttemptCount uint32    `json:"attempt_count"`
	At           time.Time `json:"at"`
}

// SSE broadcasts reminder status changes to every subscriber of STREAM.
type SSE struct {
	log       logging.Logger
	sseServer *sse.Server
}

func NewSSE(log logging.Logger, sseServer *sse.Server) *SSE {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if !sseServer.StreamExists(STREAM) {
		sseServer.CreateStream(STREAM)
	}
	return &SSE{log: log, sseServer: sseServer}
}

func (p *SSE) Publish(ctx context.Context, event reminder.Event) {
	data, err := encode(event)
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("event", event))
		return
	}
	p.sseServer.Publish(STREAM, &sse.Event{Event: []byte("status"), Data: data})
	p.log.Debug(
		ctx,
		"Reminder event has been published.",
		logging.Entry("reminderID", event.ReminderID),
		logging.Entry("status", event.Status),
	)
}

func encode(event reminder.Event) ([]byte, error) {
	return json.Marshal(eventMessage{
		ReminderID:   int64(event.ReminderID),
		UserID:       int64(event.UserID),
		MedicationID: int64(event.MedicationID),
		Status:       event.Status.String(),
		AttemptCount: event.AttemptCount,
		At:           event.At,
	})
}
