package schedule

import "errors"

var (
	ErrScheduleDoesNotExist = errors.New("schedule does not exist")
	ErrInvalidTimeOfDay     = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidWeekday       = errors.New("invalid weekday, expected 0 (Monday) to 6 (Sunday)")
)
