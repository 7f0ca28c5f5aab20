package registerschedules

import (
	"context"
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/services"
	"time"
)

type Input struct{}

type Result struct {
	Registered int
	Skipped    int
	Canceled   int
}

type service struct {
	log             logging.Logger
	unitOfWork      uow.UnitOfWork
	scheduler       job.Scheduler
	defaultLocation *time.Location
	emptyWeekdays   schedule.EmptyWeekdays
}

// New builds the catalog sync. It upserts a recurring job for every active
// schedule and cancels recurring jobs whose schedule is no longer active.
func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler job.Scheduler,
	defaultLocation *time.Location,
	emptyWeekdays schedule.EmptyWeekdays,
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
	return &service{
		log:             log,
		unitOfWork:      unitOfWork,
		scheduler:       scheduler,
		defaultLocation: defaultLocation,
		emptyWeekdays:   emptyWeekdays,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	entries, err := s.readActive(ctx)
	if err != nil {
		return result, err
	}

	active := make(map[job.ID]struct{}, len(entries))
	for _, entry := range entries {
		active[entry.Definition.JobID()] = struct{}{}
		err := entry.Register(ctx, s.scheduler, s.defaultLocation, s.emptyWeekdays)
		if errors.Is(err, job.ErrNoNextOccurrence) {
			result.Skipped++
			continue
		}
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("scheduleID", entry.Definition.ID))
			result.Skipped++
			continue
		}
		result.Registered++
	}

	for _, id := range s.scheduler.RecurringIDs() {
		if _, ok := active[id]; ok {
			continue
		}
		s.scheduler.Cancel(ctx, id)
		result.Canceled++
	}

	s.log.Info(
		ctx,
		"Schedules have been registered.",
		logging.Entry("registered", result.Registered),
		logging.Entry("skipped", result.Skipped),
		logging.Entry("canceled", result.Canceled),
	)
	return result, nil
}

func (s *service) readActive(ctx context.Context) ([]schedule.Entry, error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return nil, err
	}
	defer uow.Rollback(ctx)

	entries, err := uow.Schedules().ReadActive(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return nil, err
	}
	return entries, nil
}
