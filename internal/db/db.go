package db

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// IsUniqueViolation reports whether err is a violation of the named unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == constraint
}

func EncodeOptionalText(value c.Optional[string]) pgtype.Text {
	if !value.IsPresent {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: value.Value, Status: pgtype.Present}
}

func DecodeOptionalText(value pgtype.Text) c.Optional[string] {
	return c.NewOptional(value.String, value.Status == pgtype.Present)
}

func EncodeOptionalTime(value c.Optional[time.Time]) pgtype.Timestamptz {
	if !value.IsPresent {
		return pgtype.Timestamptz{Status: pgtype.Null}
	}
	return pgtype.Timestamptz{Time: value.Value, Status: pgtype.Present}
}

func DecodeOptionalTime(value pgtype.Timestamptz) c.Optional[time.Time] {
	if value.Status != pgtype.Present {
		return c.None[time.Time]()
	}
	return c.Some(value.Time.UTC())
}
