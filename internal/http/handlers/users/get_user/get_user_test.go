package getuser

import (
	"context"
	"encoding/json"
	"fmt"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/user"
	service "medremind/internal/core/services/get_user"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
		Name:        "Mary",
		PhoneNumber: c.PhoneNumber("+15550100000"),
		Timezone:    "Europe/Paris",
		IsActive:    true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	result.Caregivers = []user.Caregiver{
		{ID: 3, UserID: 1, Name: "Anna", PhoneNumber: "+15550200", IsActive: true},
	}
	return result, nil
}

func serve(stub *stubService, url string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/users", New(stub))
	router.Method(http.MethodGet, "/users/{userID}", New(stub))
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGetUserHandler(t *testing.T) {
	cases := []struct {
		url            string
		serviceErr     error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			url:            "/users/1",
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{UserID: c.Some(user.ID(1))},
		},
		{
			url:            "/users?phone_number=%2B15550100000",
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{PhoneNumber: c.Some(c.PhoneNumber("+15550100000"))},
		},
		{
			url:            "/users/abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			url:            "/users",
			expectedStatus: http.StatusBadRequest,
		},
		{
			url:            "/users?phone_number=123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			url:            "/users/404",
			serviceErr:     user.ErrUserDoesNotExist,
			expectedStatus: http.StatusNotFound,
			expectedInput:  &service.Input{UserID: c.Some(user.ID(404))},
		},
		{
			url:            "/users/1",
			serviceErr:     fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedInput:  &service.Input{UserID: c.Some(user.ID(1))},
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.url, func(t *testing.T) {
			// Setup ---
			stub := &stubService{err: testcase.serviceErr}

			// Exercise ---
			rr := serve(stub, testcase.url)

			// Verify ---
			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, stub.input)
		})
	}
}

func TestGetUserHandlerBody(t *testing.T) {
	// Exercise ---
	rr := serve(&stubService{}, "/users/1")

	// Verify ---
	assert := require.New(t)
	assert.Equal(http.StatusOK, rr.Code)
	var body struct {
		User struct {
			ID          int64  `json:"id"`
			PhoneNumber string `json:"phone_number"`
		} `json:"user"`
		Caregivers []struct {
			Name string `json:"name"`
		} `json:"caregivers"`
	}
	assert.Nil(json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(int64(1), body.User.ID)
	assert.Equal("+15550100000", body.User.PhoneNumber)
	assert.Len(body.Caregivers, 1)
	assert.Equal("Anna", body.Caregivers[0].Name)
}
