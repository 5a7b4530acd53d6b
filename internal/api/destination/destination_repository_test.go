package destination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

var destinationColumns = []string{"id", "name", "slug", "trip_count", "created_at", "updated_at"}

func setupRepoTest(t *testing.T) (*PostgresDestinationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewDestinationRepository(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil))), mockPool
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("increments by slug", func(t *testing.T) {
		repo, mockPool := setupRepoTest(t)
		now := time.Now()
		mockPool.ExpectQuery("INSERT INTO destinations").
			WithArgs("São Paulo", "sao-paulo").
			WillReturnRows(pgxmock.NewRows(destinationColumns).
				AddRow(uuid.New(), "Sao Paulo", "sao-paulo", 4, now, now))

		dest, err := repo.Upsert(ctx, "  São Paulo ")
		require.NoError(t, err)
		assert.Equal(t, 4, dest.TripCount)
		assert.Equal(t, "sao-paulo", dest.Slug)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rejects names without letters", func(t *testing.T) {
		repo, mockPool := setupRepoTest(t)
		_, err := repo.Upsert(ctx, "???")
		assert.ErrorIs(t, err, api.ErrBadRequest)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := setupRepoTest(t)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT id, name, slug, trip_count, created_at, updated_at").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListPopular(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered rows", func(t *testing.T) {
		repo, mockPool := setupRepoTest(t)
		now := time.Now()
		mockPool.ExpectQuery("ORDER BY trip_count DESC").
			WithArgs(2).
			WillReturnRows(pgxmock.NewRows(destinationColumns).
				AddRow(uuid.New(), "Istanbul", "istanbul", 12, now, now).
				AddRow(uuid.New(), "Lisbon", "lisbon", 7, now, now))

		list, err := repo.ListPopular(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "istanbul", list[0].Slug)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupRepoTest(t)
		mockPool.ExpectQuery("ORDER BY trip_count DESC").
			WithArgs(10).
			WillReturnError(errors.New("boom"))

		_, err := repo.ListPopular(ctx, 10)
		assert.Error(t, err)
	})
}
