package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL after applying migrations from
// TEST_MIGRATIONS_PATH. The test is skipped when the database is not configured.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		t.Skip("TEST_MIGRATIONS_PATH is not set.")
	}
	if err := ApplyMigrations(migrationsPath, connString); err != nil {
		t.Fatalf("Could not apply DB migrations: %v.", err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v.", err)
	}
	return pool
}

func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(
		context.Background(),
		`TRUNCATE caregiver_notifications, reminders, medication_schedules, medications, caregivers, users
		RESTART IDENTITY CASCADE`,
	)
	if err != nil {
		t.Fatalf("Could not truncate DB tables: %v.", err)
	}
}

// InsertTestMedication creates a user with one medication and one daily schedule at 08:00
// and returns their IDs.
func InsertTestMedication(t *testing.T, pool *pgxpool.Pool, phoneNumber string) (userID, medicationID, scheduleID int64) {
	t.Helper()
	ctx := context.Background()
	err := pool.QueryRow(
		ctx,
		`INSERT INTO users (name, phone_number, timezone, is_active, created_at)
		VALUES ('Test', $1, 'UTC', TRUE, NOW()) RETURNING id`,
		phoneNumber,
	).Scan(&userID)
	if err != nil {
		t.Fatalf("Could not create test user: %v.", err)
	}
	err = pool.QueryRow(
		ctx,
		`INSERT INTO medications (user_id, name, dosage, is_active, created_at)
		VALUES ($1, 'Metformin', '500mg', TRUE, NOW()) RETURNING id`,
		userID,
	).Scan(&medicationID)
	if err != nil {
		t.Fatalf("Could not create test medication: %v.", err)
	}
	err = pool.QueryRow(
		ctx,
		`INSERT INTO medication_schedules (medication_id, hour, minute, is_active, created_at)
		VALUES ($1, 8, 0, TRUE, NOW()) RETURNING id`,
		medicationID,
	).Scan(&scheduleID)
	if err != nil {
		t.Fatalf("Could not create test schedule: %v.", err)
	}
	return userID, medicationID, scheduleID
}
