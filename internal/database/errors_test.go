package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHandlePgError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "posts_user_id_fkey"}
	other := &pgconn.PgError{Code: "42P01"}
	plain := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"unique violation", unique, ErrDuplicate},
		{"wrapped unique violation", fmt.Errorf("insert user: %w", unique), ErrDuplicate},
		{"foreign key violation", fk, ErrForeignKey},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"other pg error", other, other},
		{"plain error", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandlePgError(tt.err)
			assert.ErrorIs(t, got, tt.target)
		})
	}

	assert.NoError(t, HandlePgError(nil))
}

func TestHandlePgErrorKeepsCause(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	err := HandlePgError(unique)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}
