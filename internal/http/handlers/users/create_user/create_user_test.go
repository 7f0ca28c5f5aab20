package createuser

import (
	"context"
	"fmt"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/user"
	service "medremind/internal/core/services/create_user"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	result.User = user.User{
		ID:          user.ID(1),
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Timezone:    "America/New_York",
		IsActive:    true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return result, nil
}

func TestCreateUserHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "success",
			body:           `{"name": "Mary", "phone_number": "+1 (555) 010-0000", "timezone": "Europe/Paris"}`,
			expectedStatus: http.StatusCreated,
			expectedInput: &service.Input{
				Name:        "Mary",
				PhoneNumber: c.PhoneNumber("+15550100000"),
				Timezone:    "Europe/Paris",
			},
		},
		{
			id:             "default timezone",
			body:           `{"name": "Mary", "phone_number": "+15550100000"}`,
			expectedStatus: http.StatusCreated,
			expectedInput:  &service.Input{Name: "Mary", PhoneNumber: c.PhoneNumber("+15550100000")},
		},
		{
			id:             "invalid json",
			body:           `{"name": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "missing name",
			body:           `{"phone_number": "+15550100000"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "phone number too short",
			body:           `{"name": "Mary", "phone_number": "123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "duplicate phone number",
			body:           `{"name": "Mary", "phone_number": "+15550100000"}`,
			serviceErr:     user.ErrPhoneNumberAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedInput:  &service.Input{Name: "Mary", PhoneNumber: c.PhoneNumber("+15550100000")},
		},
		{
			id:             "invalid timezone",
			body:           `{"name": "Mary", "phone_number": "+15550100000", "timezone": "Mars/Base"}`,
			serviceErr:     user.ErrInvalidTimezone,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedInput: &service.Input{
				Name:        "Mary",
				PhoneNumber: c.PhoneNumber("+15550100000"),
				Timezone:    "Mars/Base",
			},
		},
		{
			id:             "unexpected error",
			body:           `{"name": "Mary", "phone_number": "+15550100000"}`,
			serviceErr:     fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedInput:  &service.Input{Name: "Mary", PhoneNumber: c.PhoneNumber("+15550100000")},
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			stub := &stubService{err: testcase.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(testcase.body))
			rr := httptest.NewRecorder()

			// Exercise ---
			New(stub).ServeHTTP(rr, req)

			// Verify ---
			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, stub.input)
		})
	}
}
