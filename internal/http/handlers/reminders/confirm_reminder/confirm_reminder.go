package confirmreminder

import (
	"encoding/json"
	"errors"
	"io"
	e "medremind/internal/core/domain/errors"
	ratelimiter "medremind/internal/core/domain/rate_limiter"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/confirm_reminder"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

const DefaultMethod = "api"

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

type Input struct {
	Method string `json:"method"`
}

type Result struct {
	Reminder response.Reminder `json:"reminder"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Method, validation.Length(0, 32)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	reminderID, err := strconv.ParseInt(chi.URLParam(r, "reminderID"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid reminder ID", http.StatusBadRequest)
		return
	}

	input := Input{Method: DefaultMethod}
	if r.ContentLength != 0 {
		if err := input.FromJSON(r.Body); err != nil {
			response.RenderError(rw, "invalid request data", http.StatusBadRequest)
			return
		}
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{ReminderID: reminder.ID(reminderID), Method: input.Method},
	)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrReminderStateConflict):
			response.RenderError(rw, err.Error(), http.StatusConflict)
		case errors.Is(err, reminder.ErrInvalidConfirmationMethod):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rem := response.Reminder{}
	rem.FromDomainType(result.Reminder)
	response.Render(rw, Result{Reminder: rem}, http.StatusOK)
}
