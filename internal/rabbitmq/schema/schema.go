package schema

import (
	"encoding/json"
	"time"
)

// ReminderConfirmation is sent by the voice gateway when the person acknowledges a call.
type ReminderConfirmation struct {
	ReminderID int64  `json:"reminder_id"`
	Method     string `json:"method"`
}

func (r *ReminderConfirmation) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *ReminderConfirmation) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}

type ReminderEvent struct {
	ReminderID   int64     `json:"reminder_id"`
	UserID       int64     `json:"user_id"`
	MedicationID int64     `json:"medication_id"`
	Status       string    `json:"status"`
	AttemptCount uint32    `json:"attempt_count"`
	At           time.Time `json:"at"`
}

func (r *ReminderEvent) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *ReminderEvent) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}
