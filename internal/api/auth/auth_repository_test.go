package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

func setupAuthRepoTest(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresAuthRepo(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil))), mockPool
}

var userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at"}

func TestPostgresAuthRepo_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		id := uuid.New()
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("traveller", "t@example.com", "hash").
			WillReturnRows(pgxmock.NewRows(userColumns).AddRow(id, "traveller", "t@example.com", "hash", "user", time.Now()))

		user, err := repo.CreateUser(ctx, "traveller", "t@example.com", "hash")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "user", user.Role)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("traveller", "t@example.com", "hash").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		_, err := repo.CreateUser(ctx, "traveller", "t@example.com", "hash")
		assert.ErrorIs(t, err, api.ErrConflict)
	})
}

func TestPostgresAuthRepo_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery("SELECT id, username, email, password_hash, role, created_at").
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery("SELECT id, username, email, password_hash, role, created_at").
			WithArgs("t@example.com").
			WillReturnError(errors.New("boom"))

		_, err := repo.GetUserByEmail(ctx, "t@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, api.ErrNotFound)
	})
}

func TestPostgresAuthRepo_RefreshTokens(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := setupAuthRepoTest(t)
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)

	mockPool.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(userID, "tok", expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.StoreRefreshToken(ctx, userID, "tok", expires))

	mockPool.ExpectQuery("SELECT id, user_id, token, expires_at, revoked_at FROM refresh_tokens").
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token", "expires_at", "revoked_at"}).
			AddRow(uuid.New(), userID, "tok", expires, (*time.Time)(nil)))
	rt, err := repo.GetRefreshToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, userID, rt.UserID)
	assert.Nil(t, rt.RevokedAt)

	mockPool.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs("tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.InvalidateRefreshToken(ctx, "tok"))

	mockPool.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	require.NoError(t, repo.InvalidateAllUserRefreshTokens(ctx, userID))

	mockPool.ExpectQuery("SELECT id, user_id, token, expires_at, revoked_at FROM refresh_tokens").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetRefreshToken(ctx, "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
