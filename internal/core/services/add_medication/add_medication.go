package addmedication

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"sort"
	"strings"
	"time"
)

type Input struct {
	UserID       user.ID
	Name         string
	Dosage       string
	Instructions c.Optional[string]
	Purpose      c.Optional[string]
	Times        []schedule.TimeOfDay
	Weekdays     c.Optional[schedule.WeekdaySet]
}

type Result struct {
	Medication medication.Medication
	Schedules  []schedule.Definition
}

type service struct {
	log             logging.Logger
	unitOfWork      uow.UnitOfWork
	scheduler       job.Scheduler
	defaultLocation *time.Location
	emptyWeekdays   schedule.EmptyWeekdays
	now             func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler job.Scheduler,
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
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
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
		scheduler:       scheduler,
		defaultLocation: defaultLocation,
		emptyWeekdays:   emptyWeekdays,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	times := uniqueTimes(input.Times)
	if len(times) == 0 {
		return result, medication.ErrNoScheduleTimes
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User does not exist.", logging.Entry("userID", input.UserID))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if !u.IsActive {
		s.log.Info(ctx, "User is not active.", logging.Entry("userID", input.UserID))
		return result, user.ErrUserIsNotActive
	}

	now := s.now()
	result.Medication, err = uow.Medications().Create(ctx, medication.CreateInput{
		UserID:       u.ID,
		Name:         strings.TrimSpace(input.Name),
		Dosage:       strings.TrimSpace(input.Dosage),
		Instructions: input.Instructions,
		Purpose:      input.Purpose,
		CreatedAt:    now,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	result.Schedules = make([]schedule.Definition, 0, len(times))
	for _, at := range times {
		def, err := uow.Schedules().Create(ctx, schedule.CreateInput{
			MedicationID: result.Medication.ID,
			At:           at,
			Weekdays:     input.Weekdays,
			CreatedAt:    now,
		})
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("input", input))
			return result, err
		}
		result.Schedules = append(result.Schedules, def)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	for _, def := range result.Schedules {
		entry := schedule.Entry{Definition: def, UserID: u.ID, Timezone: u.Timezone}
		err := entry.Register(ctx, s.scheduler, s.defaultLocation, s.emptyWeekdays)
		if errors.Is(err, job.ErrNoNextOccurrence) {
			s.log.Warning(ctx, "Schedule never fires, job is not registered.", logging.Entry("scheduleID", def.ID))
			continue
		}
		if err != nil {
			// The catalog refresh registers it on its next round.
			logging.Error(ctx, s.log, err, logging.Entry("scheduleID", def.ID))
		}
	}

	s.log.Info(
		ctx,
		"Medication has been added.",
		logging.Entry("userID", u.ID),
		logging.Entry("medicationID", result.Medication.ID),
		logging.Entry("schedules", len(result.Schedules)),
	)
	return result, nil
}

func uniqueTimes(times []schedule.TimeOfDay) []schedule.TimeOfDay {
	seen := make(map[schedule.TimeOfDay]struct{}, len(times))
	unique := make([]schedule.TimeOfDay, 0, len(times))
	for _, t := range times {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	sort.Slice(unique, func(i, j int) bool {
		if unique[i].Hour != unique[j].Hour {
			return unique[i].Hour < unique[j].Hour
		}
		return unique[i].Minute < unique[j].Minute
	})
	return unique
}
