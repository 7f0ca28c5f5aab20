package getadherencereport

import (
	"errors"
	"fmt"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/get_adherence_report"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const MaxDays = 365

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

type Totals struct {
	Total         int     `json:"total"`
	Confirmed     int     `json:"confirmed"`
	Missed        int     `json:"missed"`
	Pending       int     `json:"pending"`
	AdherenceRate float64 `json:"adherence_rate"`
}

func (t *Totals) fromDomainType(dt service.Totals) {
	t.Total = dt.Total
	t.Confirmed = dt.Confirmed
	t.Missed = dt.Missed
	t.Pending = dt.Pending
	t.AdherenceRate = dt.AdherenceRate
}

type MedicationAdherence struct {
	Medication response.Medication `json:"medication"`
	Totals     Totals              `json:"totals"`
}

type Missed struct {
	Reminder       response.Reminder `json:"reminder"`
	MedicationName *string           `json:"medication_name"`
}

type Result struct {
	User        response.User         `json:"user"`
	Days        int                   `json:"days"`
	Since       time.Time             `json:"since"`
	GeneratedAt time.Time             `json:"generated_at"`
	Overall     Totals                `json:"overall"`
	Medications []MedicationAdherence `json:"medications"`
	Missed      []Missed              `json:"missed"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid user ID", http.StatusBadRequest)
		return
	}
	days, err := parseDays(r.URL.Query().Get("days"))
	if err != nil {
		response.RenderError(rw, "invalid days query parameter", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{UserID: user.ID(userID), Days: days})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := Result{
		Days:        result.Days,
		Since:       result.Since,
		GeneratedAt: result.GeneratedAt,
		Medications: make([]MedicationAdherence, len(result.Medications)),
		Missed:      make([]Missed, len(result.Missed)),
	}
	res.User.FromDomainType(result.User)
	res.Overall.fromDomainType(result.Overall)
	for ix, m := range result.Medications {
		res.Medications[ix].Medication.FromDomainType(m.Medication)
		res.Medications[ix].Totals.fromDomainType(m.Totals)
	}
	for ix, m := range result.Missed {
		res.Missed[ix].Reminder.FromDomainType(m.Reminder)
		if m.Medication.IsPresent {
			name := m.Medication.Value.Name
			res.Missed[ix].MedicationName = &name
		}
	}
	response.Render(rw, res, http.StatusOK)
}

func parseDays(raw string) (days int, err error) {
	if raw == "" {
		return days, nil
	}
	d, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return days, err
	}
	if d == 0 || d > MaxDays {
		return days, fmt.Errorf("days must be between 1 and %d", MaxDays)
	}
	return int(d), nil
}
