package schedule

import (
	"context"
	"fmt"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"sync"
)

type FakeRepository struct {
	Definitions []Definition
	ReturnError bool
	medications medication.Repository
	users       user.UserRepository
	lock        sync.Mutex
}

// NewFakeRepository resolves owners of schedules through the given repositories.
func NewFakeRepository(medications medication.Repository, users user.UserRepository) *FakeRepository {
	return &FakeRepository{medications: medications, users: users}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (d Definition, err error) {
	if r.ReturnError {
		return d, fmt.Errorf("could not create schedule %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	d = Definition{
		ID:           ID(len(r.Definitions) + 1),
		MedicationID: input.MedicationID,
		At:           input.At,
		Weekdays:     input.Weekdays,
		IsActive:     true,
		CreatedAt:    input.CreatedAt,
	}
	r.Definitions = append(r.Definitions, d)
	return d, nil
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (d Definition, err error) {
	if r.ReturnError {
		return d, fmt.Errorf("could not get schedule %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, d := range r.Definitions {
		if d.ID == id {
			return d, nil
		}
	}
	return d, ErrScheduleDoesNotExist
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Definition, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not read schedules %v", options)
	}
	definitions := r.snapshot()
	result := make([]Definition, 0, len(definitions))
	for _, d := range definitions {
		if options.MedicationIDEquals.IsPresent && d.MedicationID != options.MedicationIDEquals.Value {
			continue
		}
		if options.IsActiveEquals.IsPresent && d.IsActive != options.IsActiveEquals.Value {
			continue
		}
		if options.UserIDEquals.IsPresent {
			m, err := r.medications.GetByID(ctx, d.MedicationID)
			if err != nil || m.UserID != options.UserIDEquals.Value {
				continue
			}
		}
		result = append(result, d)
	}
	return result, nil
}

func (r *FakeRepository) ReadActive(ctx context.Context) ([]Entry, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not read active schedules")
	}
	definitions := r.snapshot()
	entries := make([]Entry, 0, len(definitions))
	for _, d := range definitions {
		if !d.IsActive {
			continue
		}
		m, err := r.medications.GetByID(ctx, d.MedicationID)
		if err != nil || !m.IsActive {
			continue
		}
		u, err := r.users.GetByID(ctx, m.UserID)
		if err != nil || !u.IsActive {
			continue
		}
		entries = append(entries, Entry{Definition: d, UserID: u.ID, Timezone: u.Timezone})
	}
	return entries, nil
}

func (r *FakeRepository) DeactivateByMedicationID(
	ctx context.Context,
	medicationID medication.ID,
) ([]Definition, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not deactivate schedules of medication %d", medicationID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	deactivated := make([]Definition, 0)
	for ix := range r.Definitions {
		if r.Definitions[ix].MedicationID == medicationID && r.Definitions[ix].IsActive {
			r.Definitions[ix].IsActive = false
			deactivated = append(deactivated, r.Definitions[ix])
		}
	}
	return deactivated, nil
}

func (r *FakeRepository) snapshot() []Definition {
	r.lock.Lock()
	defer r.lock.Unlock()
	definitions := make([]Definition, len(r.Definitions))
	copy(definitions, r.Definitions)
	return definitions
}
