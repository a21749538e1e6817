package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/kanban-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"nil passes through", nil, nil},
		{"no rows becomes not found", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), store.ErrNotFound},
		{
			"unique violation becomes duplicate",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_idx"},
			store.ErrDuplicate,
		},
		{
			"foreign key violation becomes invalid entity",
			&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "boards_owner_id_fkey"},
			store.ErrInvalidEntity,
		},
		{
			"check violation becomes invalid entity",
			&pgconn.PgError{Code: checkViolationCode},
			store.ErrInvalidEntity,
		},
		{
			"not null violation becomes invalid entity",
			&pgconn.PgError{Code: notNullViolationCode, ColumnName: "name"},
			store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError(tc.err)
			if tc.sentinel == nil {
				if tc.err == nil {
					assert.NoError(t, mapped)
				}
				return
			}
			assert.ErrorIs(t, mapped, tc.sentinel)
		})
	}

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("connection reset")
		assert.Equal(t, err, MapError(err))
	})
}

func TestIsViolationHelpers(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain error")))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "board"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "board")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "board")

	err = CheckRowsAffected(fakeResult{rows: 0}, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = CheckRowsAffected(fakeResult{err: fmt.Errorf("driver does not support RowsAffected")}, "board")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, CheckRowsAffected(nil, "board"))
}
