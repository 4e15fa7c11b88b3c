package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "phone", "address", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewUserRepository(mock)
	now := time.Now()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(pgxmock.AnyArg(), "Ada", "ada@example.com", "hash", domain.RoleCustomer, "", "").
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		u := &domain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: domain.RoleCustomer}
		require.NoError(t, repo.Create(context.Background(), u))
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, now, u.CreatedAt)
	})

	t.Run("maps unique violation", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(pgxmock.AnyArg(), "Ada", "ada@example.com", "hash", domain.RoleCustomer, "", "").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		u := &domain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: domain.RoleCustomer}
		assert.ErrorIs(t, repo.Create(context.Background(), u), domain.ErrEmailTaken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewUserRepository(mock)
	now := time.Now()
	id := "7f1d2a4e-2a55-4d1c-9a51-0b8f5c1d9e10"

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(id, "Ada", "ada@example.com", "hash", domain.RoleAdmin, "", "", now, now))

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	t.Run("malformed id is not found", func(t *testing.T) {
		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("no rows is not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE lower(email) = lower($1)")).
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("AND role = ANY($1) AND id <> $2")).
		WithArgs([]string{domain.RoleAdmin}, "self").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("a", "A", "a@example.com", "h", domain.RoleAdmin, "", "", now, now).
			AddRow("b", "B", "b@example.com", "h", domain.RoleAdmin, "", "", now, now))

	users, err := repo.List(context.Background(), domain.ListFilter{Roles: []string{domain.RoleAdmin}, ExcludeID: "self"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewUserRepository(mock)
	id := "7f1d2a4e-2a55-4d1c-9a51-0b8f5c1d9e10"

	t.Run("removes the row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("referenced by orders is in use", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "orders_user_id_fkey"})

		assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrUserInUse)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrUserNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
