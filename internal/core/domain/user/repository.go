package user

import (
	"context"
	c "medremind/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Name        string
	PhoneNumber c.PhoneNumber
	Timezone    string
	CreatedAt   time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber c.PhoneNumber) (User, error)
}

type CreateCaregiverInput struct {
	UserID       ID
	Name         string
	PhoneNumber  c.PhoneNumber
	Email        c.Optional[c.Email]
	Relationship c.Optional[string]
	CreatedAt    time.Time
}

type CaregiverReadOptions struct {
	UserIDEquals   c.Optional[ID]
	IsActiveEquals c.Optional[bool]
}

type CaregiverRepository interface {
	Create(ctx context.Context, input CreateCaregiverInput) (Caregiver, error)
	Read(ctx context.Context, options CaregiverReadOptions) ([]Caregiver, error)
}
