package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ytharvest/pkg/errors"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
	}{
		{
			name:     "foreign key violation is a conflict",
			err:      &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"},
			wantType: apperrors.ErrorTypeConflict,
		},
		{
			name:     "unique violation is a conflict",
			err:      &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
			wantType: apperrors.ErrorTypeConflict,
		},
		{
			name:     "not null violation is a conflict",
			err:      &pgconn.PgError{Code: "23502", Message: "null value in column"},
			wantType: apperrors.ErrorTypeConflict,
		},
		{
			name:     "other pg error is a store failure",
			err:      &pgconn.PgError{Code: "57014", Message: "canceling statement"},
			wantType: apperrors.ErrorTypeStore,
		},
		{
			name:     "plain error is a store failure",
			err:      fmt.Errorf("connection reset"),
			wantType: apperrors.ErrorTypeStore,
		},
		{
			name:     "wrapped pg error is still classified",
			err:      fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23503"}),
			wantType: apperrors.ErrorTypeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError("upsert comments", tt.err)

			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Contains(t, appErr.Message, "upsert comments")
			assert.ErrorIs(t, appErr, appErr.Internal)
		})
	}
}
