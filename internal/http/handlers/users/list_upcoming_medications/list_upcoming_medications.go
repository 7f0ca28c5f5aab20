package listupcomingmedications

import (
	"errors"
	"fmt"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/list_upcoming_medications"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const MaxHours = 24 * 7

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Upcoming struct {
	At         time.Time           `json:"at"`
	Medication response.Medication `json:"medication"`
	Schedule   response.Schedule   `json:"schedule"`
}

type Result struct {
	Upcoming []Upcoming `json:"upcoming"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid user ID", http.StatusBadRequest)
		return
	}
	window, err := parseHours(r.URL.Query().Get("hours"))
	if err != nil {
		response.RenderError(rw, "invalid hours query parameter", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{UserID: user.ID(userID), Window: window})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	upcoming := make([]Upcoming, len(result.Upcoming))
	for ix, u := range result.Upcoming {
		upcoming[ix].At = u.At
		upcoming[ix].Medication.FromDomainType(u.Medication)
		upcoming[ix].Schedule.FromDomainType(u.Schedule)
	}
	response.Render(rw, Result{Upcoming: upcoming}, http.StatusOK)
}

func parseHours(raw string) (window time.Duration, err error) {
	if raw == "" {
		return window, nil
	}
	hours, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return window, err
	}
	if hours == 0 || hours > MaxHours {
		return window, fmt.Errorf("hours must be between 1 and %d", MaxHours)
	}
	return time.Duration(hours) * time.Hour, nil
}
