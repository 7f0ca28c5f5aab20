package medication

import (
	"context"
	"fmt"
	"sync"
)

type FakeRepository struct {
	Medications []Medication
	ReturnError bool
	Locked      []ID
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (m Medication, err error) {
	if r.ReturnError {
		return m, fmt.Errorf("could not create medication %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	m = Medication{
		ID:           ID(len(r.Medications) + 1),
		UserID:       input.UserID,
		Name:         input.Name,
		Dosage:       input.Dosage,
		Instructions: input.Instructions,
		Purpose:      input.Purpose,
		IsActive:     true,
		CreatedAt:    input.CreatedAt,
	}
	r.Medications = append(r.Medications, m)
	return m, nil
}

func (r *FakeRepository) Lock(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Locked = append(r.Locked, id)
	return nil
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (m Medication, err error) {
	if r.ReturnError {
		return m, fmt.Errorf("could not get medication %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, m := range r.Medications {
		if m.ID == id {
			return m, nil
		}
	}
	return m, ErrMedicationDoesNotExist
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Medication, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not read medications %v", options)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	medications := make([]Medication, 0, len(r.Medications))
	for _, m := range r.Medications {
		if options.UserIDEquals.IsPresent && m.UserID != options.UserIDEquals.Value {
			continue
		}
		if options.IsActiveEquals.IsPresent && m.IsActive != options.IsActiveEquals.Value {
			continue
		}
		medications = append(medications, m)
	}
	return medications, nil
}

func (r *FakeRepository) Deactivate(ctx context.Context, id ID) (m Medication, err error) {
	if r.ReturnError {
		return m, fmt.Errorf("could not deactivate medication %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Medications {
		if r.Medications[ix].ID == id {
			r.Medications[ix].IsActive = false
			return r.Medications[ix], nil
		}
	}
	return m, ErrMedicationDoesNotExist
}
