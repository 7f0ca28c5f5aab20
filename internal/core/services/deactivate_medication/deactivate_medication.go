package deactivatemedication

import (
	"context"
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/job"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/services"
)

type Input struct {
	MedicationID medication.ID
}

type Result struct {
	Medication medication.Medication
	// Schedules lists definitions deactivated by this call.
	Schedules []schedule.Definition
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  job.Scheduler
}

func New(log logging.Logger, unitOfWork uow.UnitOfWork, scheduler job.Scheduler) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &service{log: log, unitOfWork: unitOfWork, scheduler: scheduler}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	if err := uow.Medications().Lock(ctx, input.MedicationID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	m, err := uow.Medications().GetByID(ctx, input.MedicationID)
	if errors.Is(err, medication.ErrMedicationDoesNotExist) {
		s.log.Info(ctx, "Medication does not exist.", logging.Entry("input", input))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	result.Medication = m
	if !m.IsActive {
		s.log.Info(ctx, "Medication is already deactivated.", logging.Entry("input", input))
		return result, nil
	}

	result.Medication, err = uow.Medications().Deactivate(ctx, input.MedicationID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	result.Schedules, err = uow.Schedules().DeactivateByMedicationID(ctx, input.MedicationID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	for _, def := range result.Schedules {
		s.scheduler.Cancel(ctx, def.JobID())
	}

	s.log.Info(
		ctx,
		"Medication has been deactivated.",
		logging.Entry("medicationID", input.MedicationID),
		logging.Entry("schedules", len(result.Schedules)),
	)
	return result, nil
}
