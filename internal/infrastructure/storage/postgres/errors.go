package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"billfold/internal/core/apperror"
)

// PostgreSQL error codes relevant to the billing engine.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// TranslateError converts store-level constraint failures into domain errors.
// Unique violations become duplicates, foreign-key violations become validation
// errors ("invalid reference"), everything else stays an internal failure so it
// is never silently reported as a business problem.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgCodeUniqueViolation:
		return apperror.NewDuplicate(entity, constraintField(pgErr), pgErr.Detail).WithCause(err)
	case pgCodeForeignKeyViolation:
		return apperror.NewValidation("invalid reference: referenced record does not exist").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case pgCodeCheckViolation:
		return apperror.NewValidation("value violates a data constraint").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}

// constraintField guesses the offending column from the constraint name
// (conventionally table_column_key). Best-effort, for error details only.
func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return pgErr.ConstraintName
}
