package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances:
// - pgx.ErrNoRows → NotFound
// - unique constraint violations → Conflict
// - check / NOT NULL violations → Validation
// - context timeouts and cancellations, connection failures → Unavailable
//
// Unrecognized errors are wrapped as Internal so no driver error shape leaks
// past the data layer.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeUnavailable,
			Message: "request timed out, please try again",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) && pgErr.Code == pgerrcode.UniqueViolation:
			return &AppError{
				Code:    ErrCodeConflict,
				Message: "resource already exists",
				Cause:   err,
			}
		case pgErr.Code == pgerrcode.CheckViolation || pgErr.Code == pgerrcode.NotNullViolation:
			return &AppError{
				Code:    ErrCodeValidation,
				Message: "invalid data",
				Cause:   err,
			}
		case pgerrcode.IsConnectionException(pgErr.Code):
			return &AppError{
				Code:    ErrCodeUnavailable,
				Message: "database unavailable",
				Cause:   err,
			}
		}
	}

	return &AppError{
		Code:    ErrCodeInternal,
		Message: "database operation failed",
		Cause:   err,
	}
}
