package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// maxPublicIDAttempts bounds how many public IDs an insert draws before a
// collision is reported to the caller.
const maxPublicIDAttempts = 3

// MapError translates driver errors into store errors, keeping the original
// as context.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		}
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// uniqueConstraint returns the violated constraint name, if any.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName
	}
	return ""
}

// checkRowsAffected returns notFound when result touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// wrapStoreError records the entity and operation of a failed query. The
// driver error is mapped first so store sentinels stay matchable, and the
// result carries a stack for debug responses.
func wrapStoreError(entity, operation, message string, err error) error {
	return errors.WithStack(store.NewStoreError(entity, operation, message, MapError(err)))
}

// isPublicIDCollision reports whether err is a unique violation on a
// public_id column.
func isPublicIDCollision(err error) bool {
	return store.IsDuplicateError(MapError(err)) && strings.Contains(uniqueConstraint(err), "public_id")
}

// insertWithPublicID runs insert and, when the row's public ID is already
// taken, draws a new one with prefix and tries again. publicID points at the
// field insert reads, so the entity keeps the ID that was stored.
func insertWithPublicID(log *slog.Logger, prefix string, publicID *string, insert func() error) error {
	for attempt := 1; ; attempt++ {
		err := insert()
		if err == nil || !isPublicIDCollision(err) || attempt == maxPublicIDAttempts {
			return err
		}

		next, idErr := domain.NewPublicID(prefix)
		if idErr != nil {
			return errors.Wrap(idErr, "generate public id")
		}
		log.Warn("public id collision, retrying with a new id",
			slog.String("public_id", *publicID),
			slog.Int("attempt", attempt))
		*publicID = next
	}
}
