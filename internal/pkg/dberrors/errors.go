package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes the API distinguishes.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	NotNullViolation    = "23502"
	CheckViolation      = "23514"
	InvalidTextRepr     = "22P02"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint. An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsNoRows reports whether err is pgx's no-rows error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Classify translates a driver error into an apperrors kind so handlers never see
// raw pgconn errors. Unknown errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsNoRows(err) {
		return apperrors.NewCustomError(apperrors.ErrResourceNotFound, "resource not found")
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case UniqueViolation:
		return apperrors.NewCustomError(apperrors.ErrConflict, "resource already exists").
			WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
	case ForeignKeyViolation:
		return apperrors.NewCustomError(apperrors.ErrResourceNotFound, "referenced resource does not exist").
			WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
	case NotNullViolation, CheckViolation, InvalidTextRepr:
		return apperrors.NewCustomError(apperrors.ErrBadRequest, "invalid input").
			WithDetails(map[string]interface{}{"column": pgErr.ColumnName})
	}
	return err
}
