package medication

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	UserID       user.ID
	Name         string
	Dosage       string
	Instructions c.Optional[string]
	Purpose      c.Optional[string]
	CreatedAt    time.Time
}

type ReadOptions struct {
	UserIDEquals   c.Optional[user.ID]
	IsActiveEquals c.Optional[bool]
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Medication, error)
	Lock(ctx context.Context, id ID) error
	GetByID(ctx context.Context, id ID) (Medication, error)
	Read(ctx context.Context, options ReadOptions) ([]Medication, error)
	Deactivate(ctx context.Context, id ID) (Medication, error)
}
