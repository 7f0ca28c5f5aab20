package schedule

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"medremind/internal/db"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2024, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool         *pgxpool.Pool
	repo         *PgxScheduleRepository
	userID       user.ID
	medicationID medication.ID
	scheduleID   schedule.ID
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxScheduleRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) SetupTest() {
	userID, medicationID, scheduleID := db.InsertTestMedication(suite.T(), suite.pool, "+15550100")
	suite.userID = user.ID(userID)
	suite.medicationID = medication.ID(medicationID)
	suite.scheduleID = schedule.ID(scheduleID)
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.T(), suite.pool)
}

func TestPgxScheduleRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateWeekdays() {
	cases := []struct {
		id       string
		weekdays c.Optional[schedule.WeekdaySet]
	}{
		{id: "every day", weekdays: c.None[schedule.WeekdaySet]()},
		{id: "weekdays", weekdays: c.Some(schedule.NewWeekdaySet(schedule.Monday, schedule.Wednesday, schedule.Sunday))},
		{id: "empty set", weekdays: c.Some(schedule.NewWeekdaySet())},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			// Exercise ---
			d, err := s.repo.Create(context.Background(), schedule.CreateInput{
				MedicationID: s.medicationID,
				At:           schedule.TimeOfDay{Hour: 21, Minute: 45},
				Weekdays:     testcase.weekdays,
				CreatedAt:    NOW,
			})

			// Verify ---
			assert := s.Require()
			assert.Nil(err)
			assert.Equal(schedule.TimeOfDay{Hour: 21, Minute: 45}, d.At)
			assert.Equal(testcase.weekdays, d.Weekdays)
			assert.True(d.IsActive)

			got, err := s.repo.GetByID(context.Background(), d.ID)
			assert.Nil(err)
			assert.Equal(d, got)
		})
	}
}

func (s *testSuite) TestGetByIDDoesNotExist() {
	_, err := s.repo.GetByID(context.Background(), schedule.ID(1000))
	s.Require().ErrorIs(err, schedule.ErrScheduleDoesNotExist)
}

func (s *testSuite) TestReadActive() {
	// Setup ---
	ctx := context.Background()
	otherUserID, otherMedicationID, _ := db.InsertTestMedication(s.T(), s.pool, "+15550101")
	_, err := s.pool.Exec(ctx, `UPDATE users SET timezone = 'Asia/Tokyo' WHERE id = $1`, otherUserID)
	s.Require().Nil(err)
	_, err = s.repo.DeactivateByMedicationID(ctx, s.medicationID)
	s.Require().Nil(err)

	// Exercise ---
	entries, err := s.repo.ReadActive(ctx)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(entries, 1)
	assert.Equal(user.ID(otherUserID), entries[0].UserID)
	assert.Equal("Asia/Tokyo", entries[0].Timezone)
	assert.Equal(medication.ID(otherMedicationID), entries[0].Definition.MedicationID)
}

func (s *testSuite) TestReadActiveSkipsInactiveUsers() {
	// Setup ---
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, int64(s.userID))
	s.Require().Nil(err)

	// Exercise ---
	entries, err := s.repo.ReadActive(ctx)

	// Verify ---
	s.Require().Nil(err)
	s.Require().Empty(entries)
}

func (s *testSuite) TestDeactivateByMedicationID() {
	// Setup ---
	ctx := context.Background()

	// Exercise ---
	deactivated, err := s.repo.DeactivateByMedicationID(ctx, s.medicationID)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(deactivated, 1)
	assert.Equal(s.scheduleID, deactivated[0].ID)
	assert.False(deactivated[0].IsActive)

	again, err := s.repo.DeactivateByMedicationID(ctx, s.medicationID)
	assert.Nil(err)
	assert.Empty(again)

	byUser, err := s.repo.Read(ctx, schedule.ReadOptions{UserIDEquals: c.Some(s.userID)})
	assert.Nil(err)
	assert.Len(byUser, 1)

	active, err := s.repo.Read(ctx, schedule.ReadOptions{
		UserIDEquals:   c.Some(s.userID),
		IsActiveEquals: c.Some(true),
	})
	assert.Nil(err)
	assert.Empty(active)
}
