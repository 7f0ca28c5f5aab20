package createuser

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
	Name        string
	PhoneNumber c.PhoneNumber
	// Timezone is an IANA name, the default timezone is used when it is empty.
	Timezone string
}

type Result struct {
	User user.User
}

type service struct {
	log             logging.Logger
	unitOfWork      uow.UnitOfWork
	defaultTimezone string
	now             func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	defaultTimezone string,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		unitOfWork:      unitOfWork,
		defaultTimezone: defaultTimezone,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = s.defaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		s.log.Info(ctx, "Invalid timezone.", logging.Entry("timezone", timezone))
		return result, user.ErrInvalidTimezone
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().Create(ctx, user.CreateUserInput{
		Name:        strings.TrimSpace(input.Name),
		PhoneNumber: input.PhoneNumber,
		Timezone:    timezone,
		CreatedAt:   s.now(),
	})
	if errors.Is(err, user.ErrPhoneNumberAlreadyExists) {
		s.log.Info(ctx, "Phone number is already taken.", logging.Entry("phoneNumber", input.PhoneNumber))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(ctx, "User has been created.", logging.Entry("userID", u.ID), logging.Entry("timezone", u.Timezone))
	result.User = u
	return result, nil
}
