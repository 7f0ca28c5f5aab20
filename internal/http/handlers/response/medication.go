package response

import (
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"time"
)

type Medication struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Instructions *string   `json:"instructions"`
	Purpose      *string   `json:"purpose"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m *Medication) FromDomainType(dm medication.Medication) {
	m.ID = int64(dm.ID)
	m.UserID = int64(dm.UserID)
	m.Name = dm.Name
	m.Dosage = dm.Dosage
	if dm.Instructions.IsPresent {
		instructions := dm.Instructions.Value
		m.Instructions = &instructions
	}
	if dm.Purpose.IsPresent {
		purpose := dm.Purpose.Value
		m.Purpose = &purpose
	}
	m.IsActive = dm.IsActive
	m.CreatedAt = dm.CreatedAt
}

type Schedule struct {
	ID           int64     `json:"id"`
	MedicationID int64     `json:"medication_id"`
	Time         string    `json:"time"`
	Weekdays     []int     `json:"weekdays"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Schedule) FromDomainType(ds schedule.Definition) {
	s.ID = int64(ds.ID)
	s.MedicationID = int64(ds.MedicationID)
	s.Time = ds.At.String()
	if ds.Weekdays.IsPresent {
		s.Weekdays = ds.Weekdays.Value.Ints()
	}
	s.IsActive = ds.IsActive
	s.CreatedAt = ds.CreatedAt
}

func SchedulesFromDomainType(definitions []schedule.Definition) []Schedule {
	schedules := make([]Schedule, len(definitions))
	for ix, def := range definitions {
		schedules[ix].FromDomainType(def)
	}
	return schedules
}
