package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pic-backend/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newUser() *domain.User {
	return &domain.User{
		Name:      "Marcus Zanini",
		Phone:     "13991550539",
		Birthdate: time.Date(2000, 7, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserCreate(t *testing.T) {
	mock := newMockPool(t)
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(17), now, now))

	user := newUser()
	require.NoError(t, NewUserRepository(mock).Create(context.Background(), user))
	assert.Equal(t, int64(17), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NotEmpty(t, user.PublicID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateUniqueViolations(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"phone", constraintUserPhone, ErrPhoneTaken},
		{"email", constraintUserEmail, ErrEmailTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})

			err := NewUserRepository(mock).Create(context.Background(), newUser())
			assert.ErrorIs(t, err, tc.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other constraint", func(t *testing.T) {
		mock := newMockPool(t)
		pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_public_id_key"}
		mock.ExpectQuery(`INSERT INTO users`).WillReturnError(pgErr)

		err := NewUserRepository(mock).Create(context.Background(), newUser())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrPhoneTaken) || errors.Is(err, ErrEmailTaken))

		var got *pgconn.PgError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, "users_public_id_key", got.ConstraintName)
	})
}
