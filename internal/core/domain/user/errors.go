package user

import (
	"errors"
)

var (
	ErrUserDoesNotExist         = errors.New("user does not exist")
	ErrUserIsNotActive          = errors.New("user is not active")
	ErrPhoneNumberAlreadyExists = errors.New("phone number already exists")
	ErrInvalidTimezone          = errors.New("invalid timezone")
	ErrCaregiverDoesNotExist    = errors.New("caregiver does not exist")
)
