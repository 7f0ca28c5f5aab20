package getadherencereport

import (
	"context"
	"errors"
	"math"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"time"
)

const DefaultDays = 30

type Input struct {
	UserID user.ID
	// Days defaults to DefaultDays.
	Days int
}

type Totals struct {
	Total     int
	Confirmed int
	// Missed counts MISSED and CAREGIVER_NOTIFIED reminders.
	Missed int
	// Pending counts PENDING and SENT reminders.
	Pending int
	// AdherenceRate is the percentage of confirmed reminders, rounded to 2 decimals.
	AdherenceRate float64
}

func (t *Totals) add(status reminder.Status) {
	t.Total++
	switch status {
	case reminder.StatusConfirmed:
		t.Confirmed++
	case reminder.StatusMissed, reminder.StatusCaregiverNotified:
		t.Missed++
	default:
		t.Pending++
	}
}

func (t *Totals) finish() {
	if t.Total == 0 {
		t.AdherenceRate = 0
		return
	}
	t.AdherenceRate = math.Round(float64(t.Confirmed)/float64(t.Total)*100*100) / 100
}

type MedicationAdherence struct {
	Medication medication.Medication
	Totals     Totals
}

type Missed struct {
	Reminder   reminder.Reminder
	Medication c.Optional[medication.Medication]
}

type Result struct {
	User        user.User
	Days        int
	Since       time.Time
	GeneratedAt time.Time
	Overall     Totals
	Medications []MedicationAdherence
	// Missed is ordered from the newest occurrence.
	Missed []Missed
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	now        func() time.Time
}

func New(log logging.Logger, unitOfWork uow.UnitOfWork, now func() time.Time) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{log: log, unitOfWork: unitOfWork, now: now}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	days := input.Days
	if days <= 0 {
		days = DefaultDays
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	result.User, err = uow.Users().GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	medications, err := uow.Medications().Read(ctx, medication.ReadOptions{UserIDEquals: c.Some(input.UserID)})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	result.GeneratedAt = s.now()
	result.Days = days
	result.Since = result.GeneratedAt.AddDate(0, 0, -days)
	reminders, err := uow.Reminders().Read(ctx, reminder.ReadOptions{
		UserIDEquals:    c.Some(input.UserID),
		ScheduledAtFrom: c.Some(result.Since),
		OrderBy:         reminder.OrderByScheduledAtDesc,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	perMedication := make(map[medication.ID]*Totals, len(medications))
	byID := make(map[medication.ID]medication.Medication, len(medications))
	for _, m := range medications {
		perMedication[m.ID] = &Totals{}
		byID[m.ID] = m
	}

	result.Missed = make([]Missed, 0)
	for _, rem := range reminders {
		result.Overall.add(rem.Status)
		if totals, ok := perMedication[rem.MedicationID]; ok {
			totals.add(rem.Status)
		}
		if rem.Status == reminder.StatusMissed || rem.Status == reminder.StatusCaregiverNotified {
			m, ok := byID[rem.MedicationID]
			result.Missed = append(result.Missed, Missed{Reminder: rem, Medication: c.NewOptional(m, ok)})
		}
	}
	result.Overall.finish()

	result.Medications = make([]MedicationAdherence, 0, len(medications))
	for _, m := range medications {
		totals := perMedication[m.ID]
		totals.finish()
		result.Medications = append(result.Medications, MedicationAdherence{Medication: m, Totals: *totals})
	}
	return result, nil
}
