package destination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*PostgresDestinationRepository)(nil)

type Repository interface {
	// Upsert records one more trip to name, creating the destination on first use.
	Upsert(ctx context.Context, name string) (*types.Destination, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Destination, error)
	ListPopular(ctx context.Context, limit int) ([]types.Destination, error)
}

type PostgresDestinationRepository struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewDestinationRepository(pgpool database.Pool, logger *slog.Logger) *PostgresDestinationRepository {
	return &PostgresDestinationRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresDestinationRepository) Upsert(ctx context.Context, name string) (d *types.Destination, err error) {
	ctx, span := otel.Tracer("DestinationRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "destinations"),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "destinations.upsert", start, err) }(time.Now())

	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("destination %q has no usable name: %w", name, api.ErrBadRequest)
	}

	query := `
		INSERT INTO destinations (name, slug, trip_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (slug) DO UPDATE
		SET trip_count = destinations.trip_count + 1, updated_at = NOW()
		RETURNING id, name, slug, trip_count, created_at, updated_at`
	var dest types.Destination
	err = r.pgpool.QueryRow(ctx, query, name, slug).Scan(
		&dest.ID, &dest.Name, &dest.Slug, &dest.TripCount, &dest.CreatedAt, &dest.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to upsert destination: %w", err)
	}
	return &dest, nil
}

func (r *PostgresDestinationRepository) Get(ctx context.Context, id uuid.UUID) (d *types.Destination, err error) {
	ctx, span := otel.Tracer("DestinationRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "destinations"),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "destinations.select", start, err) }(time.Now())

	query := `
		SELECT id, name, slug, trip_count, created_at, updated_at
		FROM destinations
		WHERE id = $1`
	var dest types.Destination
	err = r.pgpool.QueryRow(ctx, query, id).Scan(
		&dest.ID, &dest.Name, &dest.Slug, &dest.TripCount, &dest.CreatedAt, &dest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("destination %s: %w", id, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find destination: %w", err)
	}
	return &dest, nil
}

func (r *PostgresDestinationRepository) ListPopular(ctx context.Context, limit int) (list []types.Destination, err error) {
	ctx, span := otel.Tracer("DestinationRepo").Start(ctx, "ListPopular", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "destinations"),
		attribute.Int("limit", limit),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "destinations.list_popular", start, err) }(time.Now())

	query := `
		SELECT id, name, slug, trip_count, created_at, updated_at
		FROM destinations
		ORDER BY trip_count DESC, name ASC
		LIMIT $1`
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	list = make([]types.Destination, 0, limit)
	for rows.Next() {
		var dest types.Destination
		if err = rows.Scan(&dest.ID, &dest.Name, &dest.Slug, &dest.TripCount, &dest.CreatedAt, &dest.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		list = append(list, dest)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}
	return list, nil
}
