package uow

import (
	"context"
	"errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"sync"
)

// FakeUnitOfWorkContext applies writes immediately, rollback does not undo them.
type FakeUnitOfWorkContext struct {
	UserRepository                  *user.FakeUserRepository
	CaregiverRepository             *user.FakeCaregiverRepository
	MedicationRepository            *medication.FakeRepository
	ScheduleRepository              *schedule.FakeRepository
	ReminderRepository              *reminder.FakeRepository
	CaregiverNotificationRepository *reminder.FakeCaregiverNotificationRepository
	WasRollbackCalled               bool
	WasCommitCalled                 bool
	CommitCount                     int
	lock                            sync.Mutex
}

func NewFakeUnitOfWorkContext() *FakeUnitOfWorkContext {
	users := user.NewFakeUserRepository()
	medications := medication.NewFakeRepository()
	return &FakeUnitOfWorkContext{
		UserRepository:                  users,
		CaregiverRepository:             user.NewFakeCaregiverRepository(),
		MedicationRepository:            medications,
		ScheduleRepository:              schedule.NewFakeRepository(medications, users),
		ReminderRepository:              reminder.NewFakeRepository(),
		CaregiverNotificationRepository: reminder.NewFakeCaregiverNotificationRepository(),
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasCommitCalled = true
	c.CommitCount++
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) Caregivers() user.CaregiverRepository {
	return c.CaregiverRepository
}

func (c *FakeUnitOfWorkContext) Medications() medication.Repository {
	return c.MedicationRepository
}

func (c *FakeUnitOfWorkContext) Schedules() schedule.Repository {
	return c.ScheduleRepository
}

func (c *FakeUnitOfWorkContext) Reminders() reminder.Repository {
	return c.ReminderRepository
}

func (c *FakeUnitOfWorkContext) CaregiverNotifications() reminder.CaregiverNotificationRepository {
	return c.CaregiverNotificationRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{Context: NewFakeUnitOfWorkContext()}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, errors.New("could not begin unit of work")
	}
	return u.Context, nil
}

func (u *FakeUnitOfWork) Users() *user.FakeUserRepository {
	return u.Context.UserRepository
}

func (u *FakeUnitOfWork) Caregivers() *user.FakeCaregiverRepository {
	return u.Context.CaregiverRepository
}

func (u *FakeUnitOfWork) Medications() *medication.FakeRepository {
	return u.Context.MedicationRepository
}

func (u *FakeUnitOfWork) Schedules() *schedule.FakeRepository {
	return u.Context.ScheduleRepository
}

func (u *FakeUnitOfWork) Reminders() *reminder.FakeRepository {
	return u.Context.ReminderRepository
}

func (u *FakeUnitOfWork) CaregiverNotifications() *reminder.FakeCaregiverNotificationRepository {
	return u.Context.CaregiverNotificationRepository
}
