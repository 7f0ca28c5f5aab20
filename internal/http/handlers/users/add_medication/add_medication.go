package addmedication

import (
	"encoding/json"
	"errors"
	"io"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/add_medication"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

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
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Instructions *string  `json:"instructions"`
	Purpose      *string  `json:"purpose"`
	Times        []string `json:"times"`
	// Weekdays counts from 0 (Monday), null means every day.
	Weekdays *[]int `json:"weekdays"`
}

type Result struct {
	Medication response.Medication `json:"medication"`
	Schedules  []response.Schedule `json:"schedules"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&i.Dosage, validation.Required, validation.Length(1, 128)),
		validation.Field(&i.Instructions, validation.Length(0, 512)),
		validation.Field(&i.Purpose, validation.Length(0, 256)),
		validation.Field(&i.Times, validation.Required, validation.Length(1, 24)),
		validation.Field(&i.Weekdays, validation.Length(0, 7)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid user ID", http.StatusBadRequest)
		return
	}

	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	times := make([]schedule.TimeOfDay, len(input.Times))
	for ix, raw := range input.Times {
		t, err := schedule.ParseTimeOfDay(raw)
		if err != nil {
			response.RenderError(rw, err.Error(), http.StatusBadRequest)
			return
		}
		times[ix] = t
	}
	var weekdays c.Optional[schedule.WeekdaySet]
	if input.Weekdays != nil {
		set, err := schedule.ParseWeekdaySet(*input.Weekdays)
		if err != nil {
			response.RenderError(rw, err.Error(), http.StatusBadRequest)
			return
		}
		weekdays = c.Some(set)
	}

	serviceInput := service.Input{
		UserID:   user.ID(userID),
		Name:     input.Name,
		Dosage:   input.Dosage,
		Times:    times,
		Weekdays: weekdays,
	}
	if input.Instructions != nil {
		serviceInput.Instructions = c.Some(*input.Instructions)
	}
	if input.Purpose != nil {
		serviceInput.Purpose = c.Some(*input.Purpose)
	}

	result, err := h.service.Run(r.Context(), serviceInput)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, user.ErrUserIsNotActive), errors.Is(err, medication.ErrNoScheduleTimes):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	m := response.Medication{}
	m.FromDomainType(result.Medication)
	response.Render(
		rw,
		Result{Medication: m, Schedules: response.SchedulesFromDomainType(result.Schedules)},
		http.StatusCreated,
	)
}
