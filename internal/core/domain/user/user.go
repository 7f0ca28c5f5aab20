package user

import (
	"fmt"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"time"
)

type ID int64

type User struct {
	ID          ID
	Name        string
	PhoneNumber c.PhoneNumber
	Timezone    string
	IsActive    bool
	CreatedAt   time.Time
}

func (u *User) Validate() error {
	if u.PhoneNumber == "" {
		return e.NewInvalidStateError(fmt.Sprintf("phone number is not set for user %d", u.ID))
	}
	if _, err := time.LoadLocation(u.Timezone); err != nil {
		return e.NewInvalidStateError(fmt.Sprintf("invalid timezone %q for user %d", u.Timezone, u.ID))
	}
	return nil
}

// Location returns the user's timezone, or fallback if the stored name can't be loaded.
func (u *User) Location(fallback *time.Location) *time.Location {
	if u.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

type CaregiverID int64

type Caregiver struct {
	ID           CaregiverID
	UserID       ID
	Name         string
	PhoneNumber  c.PhoneNumber
	Email        c.Optional[c.Email]
	Relationship c.Optional[string]
	IsActive     bool
	CreatedAt    time.Time
}
