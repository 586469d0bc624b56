package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "ytharvest/pkg/errors"
)

// Postgres error codes that the writer maps to the error taxonomy.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
)

// storeError classifies a failed write. Foreign key violations surface
// as conflicts so the caller can harvest the missing parent entity and
// retry; everything else is a store failure.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apperrors.NewConflictError(
				fmt.Sprintf("%s: referenced parent row does not exist", op), err)
		case pgUniqueViolation, pgNotNullViolation:
			return apperrors.NewConflictError(
				fmt.Sprintf("%s: constraint violation", op), err)
		}
	}
	return apperrors.NewStoreError(fmt.Sprintf("%s failed", op), err)
}
