package user

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/user"
	"medremind/internal/db"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const usersPhoneNumberIndex = "users_phone_number_idx"

const userColumns = `id, name, phone_number, timezone, is_active, created_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (name, phone_number, timezone, is_active, created_at)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING `+userColumns,
		input.Name,
		string(input.PhoneNumber),
		input.Timezone,
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err, usersPhoneNumberIndex) {
			return u, user.ErrPhoneNumberAlreadyExists
		}
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func (r *PgxUserRepository) GetByPhoneNumber(
	ctx context.Context,
	phoneNumber c.PhoneNumber,
) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, string(phoneNumber))
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id          int64
		phoneNumber string
	)
	err = row.Scan(&id, &u.Name, &phoneNumber, &u.Timezone, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.PhoneNumber = c.PhoneNumber(phoneNumber)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, u.Validate()
}

const caregiverColumns = `id, user_id, name, phone_number, email, relationship, is_active, created_at`

type PgxCaregiverRepository struct {
	db db.DBTX
}

func NewPgxCaregiverRepository(dbtx db.DBTX) *PgxCaregiverRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxCaregiverRepository{db: dbtx}
}

func (r *PgxCaregiverRepository) Create(
	ctx context.Context,
	input user.CreateCaregiverInput,
) (cg user.Caregiver, err error) {
	email := c.NewOptional(string(input.Email.Value), input.Email.IsPresent)
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO caregivers (user_id, name, phone_number, email, relationship, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING `+caregiverColumns,
		int64(input.UserID),
		input.Name,
		string(input.PhoneNumber),
		db.EncodeOptionalText(email),
		db.EncodeOptionalText(input.Relationship),
		input.CreatedAt,
	)
	return scanCaregiver(row)
}

func (r *PgxCaregiverRepository) Read(
	ctx context.Context,
	options user.CaregiverReadOptions,
) (caregivers []user.Caregiver, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+caregiverColumns+` FROM caregivers
		WHERE ($1::bool OR user_id = $2)
		AND ($3::bool OR is_active = $4)
		ORDER BY id`,
		!options.UserIDEquals.IsPresent,
		int64(options.UserIDEquals.Value),
		!options.IsActiveEquals.IsPresent,
		options.IsActiveEquals.Value,
	)
	if err != nil {
		return caregivers, err
	}
	defer rows.Close()

	caregivers = make([]user.Caregiver, 0)
	for rows.Next() {
		cg, err := scanCaregiver(rows)
		if err != nil {
			return caregivers, err
		}
		caregivers = append(caregivers, cg)
	}
	return caregivers, rows.Err()
}

func scanCaregiver(row pgx.Row) (cg user.Caregiver, err error) {
	var (
		id, userID   int64
		phoneNumber  string
		email        pgtype.Text
		relationship pgtype.Text
		createdAt    time.Time
	)
	err = row.Scan(&id, &userID, &cg.Name, &phoneNumber, &email, &relationship, &cg.IsActive, &createdAt)
	if err != nil {
		return cg, err
	}
	cg.ID = user.CaregiverID(id)
	cg.UserID = user.ID(userID)
	cg.PhoneNumber = c.PhoneNumber(phoneNumber)
	rawEmail := db.DecodeOptionalText(email)
	cg.Email = c.NewOptional(c.Email(rawEmail.Value), rawEmail.IsPresent)
	cg.Relationship = db.DecodeOptionalText(relationship)
	cg.CreatedAt = createdAt.UTC()
	return cg, nil
}
