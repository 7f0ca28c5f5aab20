package app

import (
	"fmt"
	"medremind/internal/app/deps"
	"medremind/internal/app/services"
	deactivatemedication "medremind/internal/http/handlers/medications/deactivate_medication"
	confirmreminder "medremind/internal/http/handlers/reminders/confirm_reminder"
	"medremind/internal/http/handlers/reminders/events"
	addcaregiver "medremind/internal/http/handlers/users/add_caregiver"
	addmedication "medremind/internal/http/handlers/users/add_medication"
	createuser "medremind/internal/http/handlers/users/create_user"
	getadherencereport "medremind/internal/http/handlers/users/get_adherence_report"
	getuser "medremind/internal/http/handlers/users/get_user"
	listupcomingmedications "medremind/internal/http/handlers/users/list_upcoming_medications"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	usersRouter := chi.NewRouter()
	usersRouter.Method(http.MethodPost, "/", createuser.New(s.CreateUser))
	usersRouter.Method(http.MethodGet, "/", getuser.New(s.GetUser))
	usersRouter.Method(http.MethodGet, "/{userID:[0-9]+}", getuser.New(s.GetUser))
	usersRouter.Method(http.MethodPost, "/{userID:[0-9]+}/caregivers", addcaregiver.New(s.AddCaregiver))
	usersRouter.Method(http.MethodPost, "/{userID:[0-9]+}/medications", addmedication.New(s.AddMedication))
	usersRouter.Method(
		http.MethodGet,
		"/{userID:[0-9]+}/medications/upcoming",
		listupcomingmedications.New(s.ListUpcomingMedications),
	)
	usersRouter.Method(http.MethodGet, "/{userID:[0-9]+}/adherence", getadherencereport.New(s.GetAdherenceReport))

	medicationsRouter := chi.NewRouter()
	medicationsRouter.Method(
		http.MethodDelete,
		"/{medicationID:[0-9]+}",
		deactivatemedication.New(s.DeactivateMedication),
	)

	remindersRouter := chi.NewRouter()
	remindersRouter.Method(
		http.MethodPut,
		"/{reminderID:[0-9]+}/confirmation",
		confirmreminder.New(s.ConfirmReminder),
	)
	remindersRouter.Method(http.MethodGet, "/events", events.New(deps.Logger, deps.SseServer))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/users", usersRouter)
	router.Mount("/medications", medicationsRouter)
	router.Mount("/reminders", remindersRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}
