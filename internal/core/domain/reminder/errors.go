package reminder

import "errors"

var (
	ErrReminderDoesNotExist      = errors.New("reminder does not exist")
	ErrReminderAlreadyExists     = errors.New("reminder for this occurrence already exists")
	ErrReminderStateConflict     = errors.New("reminder status does not allow this transition")
	ErrReminderAlreadyConfirmed  = errors.New("reminder is already confirmed")
	ErrReminderAttemptsExhausted = errors.New("reminder attempts are exhausted")
	ErrInvalidConfirmationMethod = errors.New("invalid confirmation method")
)
