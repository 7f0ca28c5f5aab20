package listupcomingmedications

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	uow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/core/domain/user"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Tuesday.
var Now = time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)

func TestListUpcomingMedications(t *testing.T) {
	// Setup ---
	ctx := context.Background()
	assert := require.New(t)
	unitOfWork := uow.NewFakeUnitOfWork()
	u, err := unitOfWork.Users().Create(ctx, user.CreateUserInput{Name: "Ann", PhoneNumber: "+1", Timezone: "UTC"})
	assert.Nil(err)
	daily, err := unitOfWork.Medications().Create(ctx, medication.CreateInput{UserID: u.ID, Name: "Aspirin"})
	assert.Nil(err)
	weekly, err := unitOfWork.Medications().Create(ctx, medication.CreateInput{UserID: u.ID, Name: "Vitamin D"})
	assert.Nil(err)
	removed, err := unitOfWork.Medications().Create(ctx, medication.CreateInput{UserID: u.ID, Name: "Old"})
	assert.Nil(err)
	_, err = unitOfWork.Medications().Deactivate(ctx, removed.ID)
	assert.Nil(err)

	morning, err := unitOfWork.Schedules().Create(ctx, schedule.CreateInput{MedicationID: daily.ID, At: schedule.TimeOfDay{Hour: 8}})
	assert.Nil(err)
	evening, err := unitOfWork.Schedules().Create(ctx, schedule.CreateInput{MedicationID: daily.ID, At: schedule.TimeOfDay{Hour: 20}})
	assert.Nil(err)
	_, err = unitOfWork.Schedules().Create(ctx, schedule.CreateInput{
		MedicationID: weekly.ID,
		At:           schedule.TimeOfDay{Hour: 10},
		Weekdays:     c.Some(schedule.NewWeekdaySet(schedule.Saturday)),
	})
	assert.Nil(err)
	_, err = unitOfWork.Schedules().Create(ctx, schedule.CreateInput{MedicationID: removed.ID, At: schedule.TimeOfDay{Hour: 12}})
	assert.Nil(err)

	service := New(logging.NewFakeLogger(), unitOfWork, time.UTC, schedule.EmptyWeekdaysEveryDay, func() time.Time { return Now })

	// Exercise ---
	result, err := service.Run(ctx, Input{UserID: u.ID})

	// Verify ---
	assert.Nil(err)
	assert.Len(result.Upcoming, 2)
	assert.Equal(evening.ID, result.Upcoming[0].Schedule.ID)
	assert.Equal(time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC), result.Upcoming[0].At)
	assert.Equal(morning.ID, result.Upcoming[1].Schedule.ID)
	assert.Equal(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), result.Upcoming[1].At)
	assert.Equal("Aspirin", result.Upcoming[1].Medication.Name)

	// Exercise ---
	result, err = service.Run(ctx, Input{UserID: u.ID, Window: 7 * 24 * time.Hour})

	// Verify ---
	assert.Nil(err)
	assert.Len(result.Upcoming, 3)
	assert.Equal("Vitamin D", result.Upcoming[2].Medication.Name)
	assert.Equal(time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC), result.Upcoming[2].At)
}

func TestListUpcomingMedicationsUnknownUser(t *testing.T) {
	service := New(logging.NewFakeLogger(), uow.NewFakeUnitOfWork(), time.UTC, schedule.EmptyWeekdaysEveryDay, time.Now)

	_, err := service.Run(context.Background(), Input{UserID: 404})

	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
}
