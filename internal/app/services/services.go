package services

import (
	"medremind/internal/app/deps"
	"medremind/internal/core/services"
	addcaregiver "medremind/internal/core/services/add_caregiver"
	addmedication "medremind/internal/core/services/add_medication"
	checkreminder "medremind/internal/core/services/check_reminder"
	confirmreminder "medremind/internal/core/services/confirm_reminder"
	createuser "medremind/internal/core/services/create_user"
	deactivatemedication "medremind/internal/core/services/deactivate_medication"
	firereminder "medremind/internal/core/services/fire_reminder"
	getadherencereport "medremind/internal/core/services/get_adherence_report"
	getuser "medremind/internal/core/services/get_user"
	listupcomingmedications "medremind/internal/core/services/list_upcoming_medications"
	ratelimiting "medremind/internal/core/services/rate_limiting"
	recoverfollowups "medremind/internal/core/services/recover_follow_ups"
	registerschedules "medremind/internal/core/services/register_schedules"
)

type Services struct {
	CreateUser   services.Service[createuser.Input, createuser.Result]
	GetUser      services.Service[getuser.Input, getuser.Result]
	AddCaregiver services.Service[addcaregiver.Input, addcaregiver.Result]

	AddMedication           services.Service[addmedication.Input, addmedication.Result]
	DeactivateMedication    services.Service[deactivatemedication.Input, deactivatemedication.Result]
	ListUpcomingMedications services.Service[listupcomingmedications.Input, listupcomingmedications.Result]
	GetAdherenceReport      services.Service[getadherencereport.Input, getadherencereport.Result]

	RegisterSchedules services.Service[registerschedules.Input, registerschedules.Result]
	RecoverFollowUps  services.Service[recoverfollowups.Input, recoverfollowups.Result]

	FireReminder    services.Service[firereminder.Input, firereminder.Result]
	CheckReminder   services.Service[checkreminder.Input, checkreminder.Result]
	ConfirmReminder services.Service[confirmreminder.Input, confirmreminder.Result]
}

func InitServices(deps *deps.Deps) *Services {
	location := deps.Config.Location()
	emptyWeekdays := deps.Config.EmptyWeekdays()
	policy := deps.Config.ReminderPolicy()

	return &Services{
		CreateUser: createuser.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Config.Timezone,
			deps.Now,
		),
		GetUser: getuser.New(
			deps.Logger,
			deps.UnitOfWork,
		),
		AddCaregiver: addcaregiver.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Now,
		),
		AddMedication: addmedication.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Scheduler,
			location,
			emptyWeekdays,
			deps.Now,
		),
		DeactivateMedication: deactivatemedication.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Scheduler,
		),
		ListUpcomingMedications: listupcomingmedications.New(
			deps.Logger,
			deps.UnitOfWork,
			location,
			emptyWeekdays,
			deps.Now,
		),
		GetAdherenceReport: getadherencereport.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Now,
		),
		RegisterSchedules: registerschedules.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Scheduler,
			location,
			emptyWeekdays,
		),
		RecoverFollowUps: recoverfollowups.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Scheduler,
		),
		FireReminder: firereminder.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Notifier,
			deps.Scheduler,
			deps.Locker,
			deps.Publisher,
			policy,
			deps.Now,
		),
		CheckReminder: checkreminder.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Notifier,
			deps.Scheduler,
			deps.Locker,
			deps.Publisher,
			policy,
			deps.Now,
		),
		ConfirmReminder: ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			deps.Config.ConfirmationLimit(),
			confirmreminder.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.Scheduler,
				deps.Locker,
				deps.Publisher,
				deps.Now,
			),
		),
	}
}
