package reminder

import (
	"context"
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	"medremind/internal/core/domain/user"
	"medremind/internal/db"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const remindersOccurrenceKey = "reminders_occurrence_key"

const columns = `id, user_id, medication_id, schedule_id, scheduled_at, sent_at, status, attempt_count,
	follow_up_at, confirmed_at, confirmation_method, caregiver_notified, caregiver_notified_at, created_at`

type PgxReminderRepository struct {
	db db.DBTX
}

func NewPgxReminderRepository(dbtx db.DBTX) *PgxReminderRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxReminderRepository{db: dbtx}
}

func (r *PgxReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO reminders (user_id, medication_id, schedule_id, scheduled_at, status, attempt_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+columns,
		int64(input.UserID),
		int64(input.MedicationID),
		int64(input.ScheduleID),
		input.ScheduledAt,
		input.Status.String(),
		int32(input.AttemptCount),
		input.CreatedAt,
	)
	rem, err = scanReminder(row)
	if err != nil {
		if db.IsUniqueViolation(err, remindersOccurrenceKey) {
			return rem, reminder.ErrReminderAlreadyExists
		}
		return rem, err
	}
	return rem, nil
}

func (r *PgxReminderRepository) Lock(ctx context.Context, id reminder.ID) error {
	// The method works only within a DB transaction
	var lockedID int64
	err := r.db.QueryRow(ctx, `SELECT id FROM reminders WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return reminder.ErrReminderDoesNotExist
	}
	return err
}

func (r *PgxReminderRepository) GetByID(ctx context.Context, id reminder.ID) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM reminders WHERE id = $1`, int64(id))
	rem, err = scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return rem, reminder.ErrReminderDoesNotExist
	}
	return rem, err
}

func (r *PgxReminderRepository) Read(
	ctx context.Context,
	options reminder.ReadOptions,
) (reminders []reminder.Reminder, err error) {
	var statusIn []string
	if options.StatusIn.IsPresent {
		statusIn = make([]string, len(options.StatusIn.Value))
		for ix, status := range options.StatusIn.Value {
			statusIn[ix] = status.String()
		}
	}
	limit := pgtype.Int8{Status: pgtype.Null}
	if options.Limit.IsPresent {
		limit = pgtype.Int8{Int: int64(options.Limit.Value), Status: pgtype.Present}
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+columns+` FROM reminders
		WHERE ($1::bool OR user_id = $2)
		AND ($3::bool OR medication_id = $4)
		AND ($5::bool OR status = ANY($6::text[]))
		AND ($7::bool OR scheduled_at >= $8)
		AND ($9::bool OR (follow_up_at IS NOT NULL) = $10)
		ORDER BY
			CASE WHEN $11::bool THEN scheduled_at END ASC,
			CASE WHEN $12::bool THEN scheduled_at END DESC,
			id ASC
		LIMIT $13`,
		!options.UserIDEquals.IsPresent,
		int64(options.UserIDEquals.Value),
		!options.MedicationIDEquals.IsPresent,
		int64(options.MedicationIDEquals.Value),
		!options.StatusIn.IsPresent,
		statusIn,
		!options.ScheduledAtFrom.IsPresent,
		options.ScheduledAtFrom.Value,
		!options.FollowUpAtIsSet.IsPresent,
		options.FollowUpAtIsSet.Value,
		options.OrderBy == reminder.OrderByScheduledAtAsc,
		options.OrderBy == reminder.OrderByScheduledAtDesc,
		limit,
	)
	if err != nil {
		return reminders, err
	}
	defer rows.Close()

	reminders = make([]reminder.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return reminders, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *PgxReminderRepository) Update(
	ctx context.Context,
	input reminder.UpdateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE reminders SET
			status = CASE WHEN $2::bool THEN $3::text ELSE status END,
			sent_at = CASE WHEN $4::bool THEN $5::timestamptz ELSE sent_at END,
			attempt_count = CASE WHEN $6::bool THEN $7::integer ELSE attempt_count END,
			follow_up_at = CASE WHEN $8::bool THEN $9::timestamptz ELSE follow_up_at END,
			confirmed_at = CASE WHEN $10::bool THEN $11::timestamptz ELSE confirmed_at END,
			confirmation_method = CASE WHEN $12::bool THEN $13::text ELSE confirmation_method END,
			caregiver_notified = CASE WHEN $14::bool THEN $15::bool ELSE caregiver_notified END,
			caregiver_notified_at = CASE WHEN $14::bool THEN $16::timestamptz ELSE caregiver_notified_at END
		WHERE id = $1
		RETURNING `+columns,
		int64(input.ID),
		input.DoStatusUpdate,
		input.Status.String(),
		input.DoSentAtUpdate,
		db.EncodeOptionalTime(input.SentAt),
		input.DoAttemptCountUpdate,
		int32(input.AttemptCount),
		input.DoFollowUpAtUpdate,
		db.EncodeOptionalTime(input.FollowUpAt),
		input.DoConfirmedAtUpdate,
		db.EncodeOptionalTime(input.ConfirmedAt),
		input.DoConfirmationMethodUpdate,
		db.EncodeOptionalText(input.ConfirmationMethod),
		input.DoCaregiverNotifiedUpdate,
		input.CaregiverNotified,
		db.EncodeOptionalTime(input.CaregiverNotifiedAt),
	)
	rem, err = scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return rem, reminder.ErrReminderDoesNotExist
	}
	return rem, err
}

func scanReminder(row pgx.Row) (rem reminder.Reminder, err error) {
	var (
		id, userID, medicationID, scheduleID int64
		sentAt                               pgtype.Timestamptz
		status                               string
		attemptCount                         int32
		followUpAt                           pgtype.Timestamptz
		confirmedAt                          pgtype.Timestamptz
		confirmationMethod                   pgtype.Text
		caregiverNotifiedAt                  pgtype.Timestamptz
	)
	err = row.Scan(
		&id,
		&userID,
		&medicationID,
		&scheduleID,
		&rem.ScheduledAt,
		&sentAt,
		&status,
		&attemptCount,
		&followUpAt,
		&confirmedAt,
		&confirmationMethod,
		&rem.CaregiverNotified,
		&caregiverNotifiedAt,
		&rem.CreatedAt,
	)
	if err != nil {
		return rem, err
	}
	rem.ID = reminder.ID(id)
	rem.UserID = user.ID(userID)
	rem.MedicationID = medication.ID(medicationID)
	rem.ScheduleID = schedule.ID(scheduleID)
	rem.ScheduledAt = rem.ScheduledAt.UTC()
	rem.SentAt = db.DecodeOptionalTime(sentAt)
	rem.Status, err = reminder.ParseStatus(status)
	if err != nil {
		return rem, err
	}
	rem.AttemptCount = uint32(attemptCount)
	rem.FollowUpAt = db.DecodeOptionalTime(followUpAt)
	rem.ConfirmedAt = db.DecodeOptionalTime(confirmedAt)
	rem.ConfirmationMethod = db.DecodeOptionalText(confirmationMethod)
	rem.CaregiverNotifiedAt = db.DecodeOptionalTime(caregiverNotifiedAt)
	rem.CreatedAt = rem.CreatedAt.UTC()
	return rem, rem.Validate()
}

type PgxCaregiverNotificationRepository struct {
	db db.DBTX
}

func NewPgxCaregiverNotificationRepository(dbtx db.DBTX) *PgxCaregiverNotificationRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxCaregiverNotificationRepository{db: dbtx}
}

const notificationColumns = `id, reminder_id, caregiver_id, notified_at, is_successful, error`

func (r *PgxCaregiverNotificationRepository) Create(
	ctx context.Context,
	input reminder.CreateCaregiverNotificationInput,
) (reminder.CaregiverNotification, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO caregiver_notifications (reminder_id, caregiver_id, notified_at, is_successful, error)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		int64(input.ReminderID),
		int64(input.CaregiverID),
		input.NotifiedAt,
		input.IsSuccessful,
		db.EncodeOptionalText(input.Error),
	)
	return scanCaregiverNotification(row)
}

func (r *PgxCaregiverNotificationRepository) ReadByReminderID(
	ctx context.Context,
	reminderID reminder.ID,
) (notifications []reminder.CaregiverNotification, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+notificationColumns+` FROM caregiver_notifications WHERE reminder_id = $1 ORDER BY id`,
		int64(reminderID),
	)
	if err != nil {
		return notifications, err
	}
	defer rows.Close()

	notifications = make([]reminder.CaregiverNotification, 0)
	for rows.Next() {
		n, err := scanCaregiverNotification(rows)
		if err != nil {
			return notifications, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func scanCaregiverNotification(row pgx.Row) (n reminder.CaregiverNotification, err error) {
	var (
		id, reminderID, caregiverID int64
		notifyErr                   pgtype.Text
	)
	err = row.Scan(&id, &reminderID, &caregiverID, &n.NotifiedAt, &n.IsSuccessful, &notifyErr)
	if err != nil {
		return n, err
	}
	n.ID = reminder.CaregiverNotificationID(id)
	n.ReminderID = reminder.ID(reminderID)
	n.CaregiverID = user.CaregiverID(caregiverID)
	n.NotifiedAt = n.NotifiedAt.UTC()
	n.Error = db.DecodeOptionalText(notifyErr)
	return n, nil
}

