package getuser

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
)

var ErrLookupKeyRequired = errors.New("either user ID or phone number is required")

// Input looks a user up by ID or, when ID is absent, by phone number.
type Input struct {
	UserID      c.Optional[user.ID]
	PhoneNumber c.Optional[c.PhoneNumber]
}

type Result struct {
	User       user.User
	Caregivers []user.Caregiver
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
}

func New(log logging.Logger, unitOfWork uow.UnitOfWork) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	return &service{log: log, unitOfWork: unitOfWork}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.UserID.IsPresent && (!input.PhoneNumber.IsPresent || input.PhoneNumber.Value == "") {
		return result, ErrLookupKeyRequired
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	var u user.User
	if input.UserID.IsPresent {
		u, err = uow.Users().GetByID(ctx, input.UserID.Value)
	} else {
		u, err = uow.Users().GetByPhoneNumber(ctx, input.PhoneNumber.Value)
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found.", logging.Entry("input", input))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	caregivers, err := uow.Caregivers().Read(ctx, user.CaregiverReadOptions{
		UserIDEquals:   c.Some(u.ID),
		IsActiveEquals: c.Some(true),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	result.User = u
	result.Caregivers = caregivers
	return result, nil
}
