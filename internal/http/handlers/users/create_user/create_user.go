package createuser

import (
	"encoding/json"
	"errors"
	"io"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/create_user"
	"medremind/internal/http/handlers/response"
	"net/http"

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
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Timezone    string `json:"timezone"`
}

type Result struct {
	User response.User `json:"user"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&i.PhoneNumber, validation.Required, validation.Length(7, 20)),
		validation.Field(&i.Timezone, validation.Length(0, 64)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Name:        input.Name,
			PhoneNumber: c.NewPhoneNumber(input.PhoneNumber),
			Timezone:    input.Timezone,
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrPhoneNumberAlreadyExists):
			response.RenderError(rw, err.Error(), http.StatusConflict)
		case errors.Is(err, user.ErrInvalidTimezone):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	u := response.User{}
	u.FromDomainType(result.User)
	response.Render(rw, Result{User: u}, http.StatusCreated)
}
