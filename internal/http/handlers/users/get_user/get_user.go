package getuser

import (
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/core/services"
	service "medremind/internal/core/services/get_user"
	"medremind/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Handler serves both /users/{userID} and /users?phone_number=...
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
	User       response.User        `json:"user"`
	Caregivers []response.Caregiver `json:"caregivers"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := service.Input{}
	if rawID := chi.URLParam(r, "userID"); rawID != "" {
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			response.RenderError(rw, "invalid user ID", http.StatusBadRequest)
			return
		}
		input.UserID = c.Some(user.ID(userID))
	} else {
		phoneNumber := r.URL.Query().Get("phone_number")
		err := validation.Validate(phoneNumber, validation.Required, validation.Length(7, 20))
		if err != nil {
			response.RenderError(rw, "invalid phone_number query parameter", http.StatusBadRequest)
			return
		}
		input.PhoneNumber = c.Some(c.NewPhoneNumber(phoneNumber))
	}

	result, err := h.service.Run(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrLookupKeyRequired):
			response.RenderError(rw, err.Error(), http.StatusBadRequest)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := Result{Caregivers: make([]response.Caregiver, len(result.Caregivers))}
	res.User.FromDomainType(result.User)
	for ix, cg := range result.Caregivers {
		res.Caregivers[ix].FromDomainType(cg)
	}
	response.Render(rw, res, http.StatusOK)
}
