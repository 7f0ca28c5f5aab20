package addcaregiver

import (
	"encoding/json"
	"errors"
	"io"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/add_caregiver"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
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
	Name         string  `json:"name"`
	PhoneNumber  string  `json:"phone_number"`
	Email        *string `json:"email"`
	Relationship *string `json:"relationship"`
}

type Result struct {
	Caregiver response.Caregiver `json:"caregiver"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&i.PhoneNumber, validation.Required, validation.Length(7, 20)),
		validation.Field(&i.Email, validation.NilOrNotEmpty, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Relationship, validation.Length(0, 64)),
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

	serviceInput := service.Input{
		UserID:      user.ID(userID),
		Name:        input.Name,
		PhoneNumber: c.NewPhoneNumber(input.PhoneNumber),
	}
	if input.Email != nil {
		serviceInput.Email = c.Some(c.NewEmail(*input.Email))
	}
	if input.Relationship != nil {
		serviceInput.Relationship = c.Some(*input.Relationship)
	}

	result, err := h.service.Run(r.Context(), serviceInput)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	caregiver := response.Caregiver{}
	caregiver.FromDomainType(result.Caregiver)
	response.Render(rw, Result{Caregiver: caregiver}, http.StatusCreated)
}
