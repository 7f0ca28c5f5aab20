package schedule

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"medremind/internal/db"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const columns = `s.id, s.medication_id, s.hour, s.minute, s.weekdays, s.is_active, s.created_at`

type PgxScheduleRepository struct {
	db db.DBTX
}

func NewPgxScheduleRepository(dbtx db.DBTX) *PgxScheduleRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxScheduleRepository{db: dbtx}
}

func (r *PgxScheduleRepository) Create(
	ctx context.Context,
	input schedule.CreateInput,
) (schedule.Definition, error) {
	weekdays, err := encodeWeekdays(input.Weekdays)
	if err != nil {
		return schedule.Definition{}, err
	}
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO medication_schedules AS s (medication_id, hour, minute, weekdays, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING `+columns,
		int64(input.MedicationID),
		int16(input.At.Hour),
		int16(input.At.Minute),
		weekdays,
		input.CreatedAt,
	)
	return scanDefinition(row)
}

func (r *PgxScheduleRepository) GetByID(ctx context.Context, id schedule.ID) (d schedule.Definition, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM medication_schedules AS s WHERE s.id = $1`, int64(id))
	d, err = scanDefinition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, schedule.ErrScheduleDoesNotExist
	}
	return d, err
}

func (r *PgxScheduleRepository) Read(
	ctx context.Context,
	options schedule.ReadOptions,
) (definitions []schedule.Definition, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+columns+` FROM medication_schedules AS s
		JOIN medications AS m ON m.id = s.medication_id
		WHERE ($1::bool OR s.medication_id = $2)
		AND ($3::bool OR m.user_id = $4)
		AND ($5::bool OR s.is_active = $6)
		ORDER BY s.id`,
		!options.MedicationIDEquals.IsPresent,
		int64(options.MedicationIDEquals.Value),
		!options.UserIDEquals.IsPresent,
		int64(options.UserIDEquals.Value),
		!options.IsActiveEquals.IsPresent,
		options.IsActiveEquals.Value,
	)
	if err != nil {
		return definitions, err
	}
	defer rows.Close()

	definitions = make([]schedule.Definition, 0)
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return definitions, err
		}
		definitions = append(definitions, d)
	}
	return definitions, rows.Err()
}

func (r *PgxScheduleRepository) ReadActive(ctx context.Context) (entries []schedule.Entry, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+columns+`, u.id, u.timezone FROM medication_schedules AS s
		JOIN medications AS m ON m.id = s.medication_id
		JOIN users AS u ON u.id = m.user_id
		WHERE s.is_active AND m.is_active AND u.is_active
		ORDER BY s.id`,
	)
	if err != nil {
		return entries, err
	}
	defer rows.Close()

	entries = make([]schedule.Entry, 0)
	for rows.Next() {
		var (
			entry  schedule.Entry
			userID int64
		)
		entry.Definition, err = scanDefinition(rows, &userID, &entry.Timezone)
		if err != nil {
			return entries, err
		}
		entry.UserID = user.ID(userID)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PgxScheduleRepository) DeactivateByMedicationID(
	ctx context.Context,
	medicationID medication.ID,
) (definitions []schedule.Definition, err error) {
	rows, err := r.db.Query(
		ctx,
		`UPDATE medication_schedules AS s SET is_active = FALSE
		WHERE s.medication_id = $1 AND s.is_active
		RETURNING `+columns,
		int64(medicationID),
	)
	if err != nil {
		return definitions, err
	}
	defer rows.Close()

	definitions = make([]schedule.Definition, 0)
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return definitions, err
		}
		definitions = append(definitions, d)
	}
	return definitions, rows.Err()
}

// scanDefinition reads the schedule columns followed by any extra destinations.
func scanDefinition(row pgx.Row, extra ...interface{}) (d schedule.Definition, err error) {
	var (
		id, medicationID int64
		hour, minute     int16
		weekdays         pgtype.Int2Array
	)
	dest := append([]interface{}{&id, &medicationID, &hour, &minute, &weekdays, &d.IsActive, &d.CreatedAt}, extra...)
	if err = row.Scan(dest...); err != nil {
		return d, err
	}
	d.ID = schedule.ID(id)
	d.MedicationID = medication.ID(medicationID)
	d.At, err = schedule.NewTimeOfDay(int(hour), int(minute))
	if err != nil {
		return d, err
	}
	d.Weekdays, err = decodeWeekdays(weekdays)
	if err != nil {
		return d, err
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

func encodeWeekdays(weekdays c.Optional[schedule.WeekdaySet]) (pgtype.Int2Array, error) {
	var arr pgtype.Int2Array
	if !weekdays.IsPresent {
		arr.Status = pgtype.Null
		return arr, nil
	}
	values := make([]int16, 0, 7)
	for _, day := range weekdays.Value.Ints() {
		values = append(values, int16(day))
	}
	err := arr.Set(values)
	return arr, err
}

func decodeWeekdays(arr pgtype.Int2Array) (c.Optional[schedule.WeekdaySet], error) {
	if arr.Status != pgtype.Present {
		return c.None[schedule.WeekdaySet](), nil
	}
	values := make([]int, 0, len(arr.Elements))
	for _, element := range arr.Elements {
		if element.Status != pgtype.Present {
			continue
		}
		values = append(values, int(element.Int))
	}
	set, err := schedule.ParseWeekdaySet(values)
	if err != nil {
		return c.None[schedule.WeekdaySet](), err
	}
	return c.Some(set), nil
}
