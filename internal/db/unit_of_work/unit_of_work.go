package uow

import (
	"context"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	dbmedication "medremind/internal/db/medication"
	dbreminder "medremind/internal/db/reminder"
	dbschedule "medremind/internal/db/schedule"
	dbuser "medremind/internal/db/user"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxUnitOfWorkContext struct {
	tx pgx.Tx
}

func newPgxUnitOfWorkContext(tx pgx.Tx) *pgxUnitOfWorkContext {
	return &pgxUnitOfWorkContext{
		tx: tx,
	}
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Users() user.UserRepository {
	return dbuser.NewPgxRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) Caregivers() user.CaregiverRepository {
	return dbuser.NewPgxCaregiverRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) Medications() medication.Repository {
	return dbmedication.NewPgxMedicationRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) Schedules() schedule.Repository {
	return dbschedule.NewPgxScheduleRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) Reminders() reminder.Repository {
	return dbreminder.NewPgxReminderRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) CaregiverNotifications() reminder.CaregiverNotificationRepository {
	return dbreminder.NewPgxCaregiverNotificationRepository(c.tx)
}

type PgxUnitOfWork struct {
	db *pgxpool.Pool
}

func NewPgxUnitOfWork(db *pgxpool.Pool) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUnitOfWork{db: db}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newPgxUnitOfWorkContext(tx), nil
}
