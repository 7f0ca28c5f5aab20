package listupcomingmedications

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"sort"
	"time"
)

const DefaultWindow = 24 * time.Hour

type Input struct {
	UserID user.ID
	// Window defaults to DefaultWindow.
	Window time.Duration
}

type Upcoming struct {
	Medication medication.Medication
	Schedule   schedule.Definition
	At         time.Time
}

type Result struct {
	Upcoming []Upcoming
}

type service struct {
	log             logging.Logger
	unitOfWork      uow.UnitOfWork
	defaultLocation *time.Location
	emptyWeekdays   schedule.EmptyWeekdays
	now             func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	defaultLocation *time.Location,
	emptyWeekdays schedule.EmptyWeekdays,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if defaultLocation == nil {
		panic(e.NewNilArgumentError("defaultLocation"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		unitOfWork:      unitOfWork,
		defaultLocation: defaultLocation,
		emptyWeekdays:   emptyWeekdays,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	window := input.Window
	if window <= 0 {
		window = DefaultWindow
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	medications, err := uow.Medications().Read(ctx, medication.ReadOptions{
		UserIDEquals:   c.Some(u.ID),
		IsActiveEquals: c.Some(true),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	byID := make(map[medication.ID]medication.Medication, len(medications))
	for _, m := range medications {
		byID[m.ID] = m
	}

	definitions, err := uow.Schedules().Read(ctx, schedule.ReadOptions{
		UserIDEquals:   c.Some(u.ID),
		IsActiveEquals: c.Some(true),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	now := s.now()
	until := now.Add(window)
	loc := u.Location(s.defaultLocation)
	result.Upcoming = make([]Upcoming, 0, len(definitions))
	for _, def := range definitions {
		m, ok := byID[def.MedicationID]
		if !ok {
			continue
		}
		at, ok := def.Trigger(loc, s.emptyWeekdays).Next(now)
		if !ok || at.After(until) {
			continue
		}
		result.Upcoming = append(result.Upcoming, Upcoming{Medication: m, Schedule: def, At: at})
	}
	sort.SliceStable(result.Upcoming, func(i, j int) bool {
		if !result.Upcoming[i].At.Equal(result.Upcoming[j].At) {
			return result.Upcoming[i].At.Before(result.Upcoming[j].At)
		}
		return result.Upcoming[i].Schedule.ID < result.Upcoming[j].Schedule.ID
	})
	return result, nil
}
