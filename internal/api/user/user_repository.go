package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// GetUserByID returns api.ErrNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	// UpdateProfile only touches the fields set in params.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) error
	GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresUserRepo(pgpool database.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (u *types.User, err error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.select_profile", start, err) }(time.Now())

	query := `
		SELECT id, username, email, role, created_at, updated_at
		FROM users
		WHERE id = $1`
	var user types.User
	err = r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (err error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.update_profile", start, err) }(time.Now())

	var setClauses []string
	var args []any
	argID := 1

	if params.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argID))
		args = append(args, strings.TrimSpace(*params.Username))
		argID++
	}

	if len(setClauses) == 0 {
		r.logger.DebugContext(ctx, "UpdateProfile called with no fields to update", slog.String("userID", userID.String()))
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)
	args = append(args, userID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepo) GetStats(ctx context.Context, userID uuid.UUID) (s *types.UserStats, err error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.select_stats", start, err) }(time.Now())

	query := `
		SELECT id, trips_count, days_planned, budget_planned
		FROM users
		WHERE id = $1`
	var stats types.UserStats
	err = r.pgpool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID, &stats.TripsCount, &stats.DaysPlanned, &stats.BudgetPlanned,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}
	return &stats, nil
}
