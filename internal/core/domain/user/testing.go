package user

import (
	"context"
	"fmt"
	c "medremind/internal/core/domain/common"
	"sync"
)

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.PhoneNumber == input.PhoneNumber {
			return u, ErrPhoneNumberAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:          maxID + 1,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Timezone:    input.Timezone,
		IsActive:    true,
		CreatedAt:   input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber c.PhoneNumber) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", phoneNumber)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.PhoneNumber == phoneNumber {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

type FakeCaregiverRepository struct {
	Caregivers  []Caregiver
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeCaregiverRepository() *FakeCaregiverRepository {
	return &FakeCaregiverRepository{}
}

func (r *FakeCaregiverRepository) Create(ctx context.Context, input CreateCaregiverInput) (cg Caregiver, err error) {
	if r.ReturnError {
		return cg, fmt.Errorf("could not create caregiver %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	cg = Caregiver{
		ID:           CaregiverID(len(r.Caregivers) + 1),
		UserID:       input.UserID,
		Name:         input.Name,
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		Relationship: input.Relationship,
		IsActive:     true,
		CreatedAt:    input.CreatedAt,
	}
	r.Caregivers = append(r.Caregivers, cg)
	return cg, nil
}

func (r *FakeCaregiverRepository) Read(ctx context.Context, options CaregiverReadOptions) ([]Caregiver, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not read caregivers %v", options)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	caregivers := make([]Caregiver, 0, len(r.Caregivers))
	for _, cg := range r.Caregivers {
		if options.UserIDEquals.IsPresent && cg.UserID != options.UserIDEquals.Value {
			continue
		}
		if options.IsActiveEquals.IsPresent && cg.IsActive != options.IsActiveEquals.Value {
			continue
		}
		caregivers = append(caregivers, cg)
	}
	return caregivers, nil
}
