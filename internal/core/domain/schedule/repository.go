package schedule

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	MedicationID medication.ID
	At           TimeOfDay
	Weekdays     c.Optional[WeekdaySet]
	CreatedAt    time.Time
}

type ReadOptions struct {
	MedicationIDEquals c.Optional[medication.ID]
	UserIDEquals       c.Optional[user.ID]
	IsActiveEquals     c.Optional[bool]
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Definition, error)
	GetByID(ctx context.Context, id ID) (Definition, error)
	Read(ctx context.Context, options ReadOptions) ([]Definition, error)
	// ReadActive returns active schedules of active medications of active users.
	ReadActive(ctx context.Context) ([]Entry, error)
	DeactivateByMedicationID(ctx context.Context, medicationID medication.ID) ([]Definition, error)
}
