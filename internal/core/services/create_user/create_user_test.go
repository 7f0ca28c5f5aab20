package createuser

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/logging"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var Now = time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)

func TestCreateUser(t *testing.T) {
	cases := []struct {
		id       string
		timezone string
		expected string
	}{
		{id: "explicit", timezone: "Europe/Berlin", expected: "Europe/Berlin"},
		{id: "default", timezone: "", expected: "America/New_York"},
		{id: "trimmed", timezone: " Asia/Tokyo ", expected: "Asia/Tokyo"},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			unitOfWork := uow.NewFakeUnitOfWork()
			service := New(logging.NewFakeLogger(), unitOfWork, "America/New_York", func() time.Time { return Now })

			// Exercise ---
			result, err := service.Run(context.Background(), Input{
				Name:        " Ann ",
				PhoneNumber: c.NewPhoneNumber("+1 (555) 0100"),
				Timezone:    testcase.timezone,
			})

			// Verify ---
			assert := require.New(t)
			assert.Nil(err)
			assert.Equal("Ann", result.User.Name)
			assert.Equal(c.PhoneNumber("+15550100"), result.User.PhoneNumber)
			assert.Equal(testcase.expected, result.User.Timezone)
			assert.True(result.User.IsActive)
			assert.Equal(Now, result.User.CreatedAt)
			assert.True(unitOfWork.Context.WasCommitCalled)
		})
	}
}

func TestCreateUserInvalidTimezone(t *testing.T) {
	unitOfWork := uow.NewFakeUnitOfWork()
	service := New(logging.NewFakeLogger(), unitOfWork, "UTC", time.Now)

	_, err := service.Run(context.Background(), Input{Name: "Ann", PhoneNumber: "+1", Timezone: "Mars/Olympus"})

	assert := require.New(t)
	assert.ErrorIs(err, user.ErrInvalidTimezone)
	assert.Empty(unitOfWork.Users().Users)
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	unitOfWork := uow.NewFakeUnitOfWork()
	service := New(logging.NewFakeLogger(), unitOfWork, "UTC", time.Now)
	_, err := service.Run(context.Background(), Input{Name: "Ann", PhoneNumber: "+1"})
	require.Nil(t, err)

	_, err = service.Run(context.Background(), Input{Name: "Bob", PhoneNumber: "+1"})

	assert := require.New(t)
	assert.ErrorIs(err, user.ErrPhoneNumberAlreadyExists)
	assert.Len(unitOfWork.Users().Users, 1)
}
