package medication

import "errors"

var (
	ErrMedicationDoesNotExist = errors.New("medication does not exist")
	ErrMedicationNotActive    = errors.New("medication is not active")
	ErrNoScheduleTimes        = errors.New("medication needs at least one time of day")
)
