package deactivatemedication

import (
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/deactivate_medication"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
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

type Result struct {
	Medication response.Medication `json:"medication"`
	Schedules  []response.Schedule `json:"deactivated_schedules"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "medicationID"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid medication ID", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{MedicationID: medication.ID(medicationID)})
	if err != nil {
		switch {
		case errors.Is(err, medication.ErrMedicationDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
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
		http.StatusOK,
	)
}
