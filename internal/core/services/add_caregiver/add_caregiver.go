package addcaregiver

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	"strings"
	"time"
)

type Input struct {
	UserID       user.ID
	Name         string
	PhoneNumber  c.PhoneNumber
	Email        c.Optional[c.Email]
	Relationship c.Optional[string]
}

type Result struct {
	Caregiver user.Caregiver
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
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Users().GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, user.ErrUserDoesNotExist) {
			s.log.Info(ctx, "User does not exist.", logging.Entry("userID", input.UserID))
			return result, err
		}
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	cg, err := uow.Caregivers().Create(ctx, user.CreateCaregiverInput{
		UserID:       input.UserID,
		Name:         strings.TrimSpace(input.Name),
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		Relationship: input.Relationship,
		CreatedAt:    s.now(),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(ctx, "Caregiver has been added.", logging.Entry("userID", input.UserID), logging.Entry("caregiverID", cg.ID))
	result.Caregiver = cg
	return result, nil
}
