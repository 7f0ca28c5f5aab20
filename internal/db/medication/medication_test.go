package medication

import (
	"context"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/medication"
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
	pool   *pgxpool.Pool
	repo   *PgxMedicationRepository
	userID user.ID
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxMedicationRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) SetupTest() {
	userID, _, _ := db.InsertTestMedication(suite.T(), suite.pool, "+15550100")
	suite.userID = user.ID(userID)
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.T(), suite.pool)
}

func TestPgxMedicationRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateAndGet() {
	// Exercise ---
	m, err := s.repo.Create(context.Background(), medication.CreateInput{
		UserID:       s.userID,
		Name:         "Lisinopril",
		Dosage:       "10mg",
		Instructions: c.Some("with water"),
		CreatedAt:    NOW,
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal("Lisinopril", m.Name)
	assert.Equal(c.Some("with water"), m.Instructions)
	assert.False(m.Purpose.IsPresent)
	assert.True(m.IsActive)
	assert.Equal(NOW, m.CreatedAt)

	got, err := s.repo.GetByID(context.Background(), m.ID)
	assert.Nil(err)
	assert.Equal(m, got)
}

func (s *testSuite) TestGetByIDDoesNotExist() {
	_, err := s.repo.GetByID(context.Background(), medication.ID(1000))
	s.Require().ErrorIs(err, medication.ErrMedicationDoesNotExist)

	err = s.repo.Lock(context.Background(), medication.ID(1000))
	s.Require().ErrorIs(err, medication.ErrMedicationDoesNotExist)
}

func (s *testSuite) TestDeactivateAndRead() {
	// Setup ---
	ctx := context.Background()
	m, err := s.repo.Create(ctx, medication.CreateInput{
		UserID:    s.userID,
		Name:      "Aspirin",
		Dosage:    "81mg",
		CreatedAt: NOW,
	})
	s.Require().Nil(err)

	// Exercise ---
	deactivated, err := s.repo.Deactivate(ctx, m.ID)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(deactivated.IsActive)

	active, err := s.repo.Read(ctx, medication.ReadOptions{
		UserIDEquals:   c.Some(s.userID),
		IsActiveEquals: c.Some(true),
	})
	assert.Nil(err)
	assert.Len(active, 1)
	assert.Equal("Metformin", active[0].Name)

	all, err := s.repo.Read(ctx, medication.ReadOptions{UserIDEquals: c.Some(s.userID)})
	assert.Nil(err)
	assert.Len(all, 2)
}
