package medication

import (
	"context"
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"medremind/internal/db"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const columns = `id, user_id, name, dosage, instructions, purpose, is_active, created_at`

type PgxMedicationRepository struct {
	db db.DBTX
}

func NewPgxMedicationRepository(dbtx db.DBTX) *PgxMedicationRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxMedicationRepository{db: dbtx}
}

func (r *PgxMedicationRepository) Create(
	ctx context.Context,
	input medication.CreateInput,
) (medication.Medication, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO medications (user_id, name, dosage, instructions, purpose, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING `+columns,
		int64(input.UserID),
		input.Name,
		input.Dosage,
		db.EncodeOptionalText(input.Instructions),
		db.EncodeOptionalText(input.Purpose),
		input.CreatedAt,
	)
	return scanMedication(row)
}

func (r *PgxMedicationRepository) Lock(ctx context.Context, id medication.ID) error {
	// The method works only within a DB transaction
	var lockedID int64
	err := r.db.QueryRow(ctx, `SELECT id FROM medications WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return medication.ErrMedicationDoesNotExist
	}
	return err
}

func (r *PgxMedicationRepository) GetByID(
	ctx context.Context,
	id medication.ID,
) (m medication.Medication, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM medications WHERE id = $1`, int64(id))
	m, err = scanMedication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return m, medication.ErrMedicationDoesNotExist
	}
	return m, err
}

func (r *PgxMedicationRepository) Read(
	ctx context.Context,
	options medication.ReadOptions,
) (medications []medication.Medication, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+columns+` FROM medications
		WHERE ($1::bool OR user_id = $2)
		AND ($3::bool OR is_active = $4)
		ORDER BY id`,
		!options.UserIDEquals.IsPresent,
		int64(options.UserIDEquals.Value),
		!options.IsActiveEquals.IsPresent,
		options.IsActiveEquals.Value,
	)
	if err != nil {
		return medications, err
	}
	defer rows.Close()

	medications = make([]medication.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return medications, err
		}
		medications = append(medications, m)
	}
	return medications, rows.Err()
}

func (r *PgxMedicationRepository) Deactivate(
	ctx context.Context,
	id medication.ID,
) (m medication.Medication, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE medications SET is_active = FALSE WHERE id = $1 RETURNING `+columns,
		int64(id),
	)
	m, err = scanMedication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return m, medication.ErrMedicationDoesNotExist
	}
	return m, err
}

func scanMedication(row pgx.Row) (m medication.Medication, err error) {
	var (
		id, userID   int64
		instructions pgtype.Text
		purpose      pgtype.Text
	)
	err = row.Scan(&id, &userID, &m.Name, &m.Dosage, &instructions, &purpose, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	m.ID = medication.ID(id)
	m.UserID = user.ID(userID)
	m.Instructions = db.DecodeOptionalText(instructions)
	m.Purpose = db.DecodeOptionalText(purpose)
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}
