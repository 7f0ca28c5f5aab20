package medication

import (
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/user"
	"time"
)

type ID int64

type Medication struct {
	ID           ID
	UserID       user.ID
	Name         string
	Dosage       string
	Instructions c.Optional[string]
	Purpose      c.Optional[string]
	IsActive     bool
	CreatedAt    time.Time
}
