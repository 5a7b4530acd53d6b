package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const pgUniqueViolation = "23505"

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)

	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*types.RefreshToken, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresAuthRepo(pgpool database.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func startSpan(ctx context.Context, name, operation, table string) (context.Context, trace.Span) {
	return otel.Tracer("AuthRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	))
}

// CreateUser inserts a new account. A taken email is reported as api.ErrConflict.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (user *types.UserAuth, err error) {
	ctx, span := startSpan(ctx, "CreateUser", "INSERT", "users")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.insert", start, err) }(time.Now())

	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, role, created_at`
	var u types.UserAuth
	err = r.pgpool.QueryRow(ctx, query, username, email, passwordHash).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("email %q already registered: %w", email, api.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	r.logger.InfoContext(ctx, "User created", slog.String("userID", u.ID.String()))
	return &u, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (user *types.UserAuth, err error) {
	ctx, span := startSpan(ctx, "GetUserByEmail", "SELECT", "users")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.select_by_email", start, err) }(time.Now())

	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users WHERE email = $1`
	var u types.UserAuth
	err = r.pgpool.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %q: %w", email, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &u, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (user *types.UserAuth, err error) {
	ctx, span := startSpan(ctx, "GetUserByID", "SELECT", "users")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "users.select_by_id", start, err) }(time.Now())

	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users WHERE id = $1`
	var u types.UserAuth
	err = r.pgpool.QueryRow(ctx, query, userID).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &u, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (err error) {
	ctx, span := startSpan(ctx, "StoreRefreshToken", "INSERT", "refresh_tokens")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "refresh_tokens.insert", start, err) }(time.Now())

	_, err = r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, token, expiresAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) GetRefreshToken(ctx context.Context, token string) (rt *types.RefreshToken, err error) {
	ctx, span := startSpan(ctx, "GetRefreshToken", "SELECT", "refresh_tokens")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "refresh_tokens.select", start, err) }(time.Now())

	var t types.RefreshToken
	err = r.pgpool.QueryRow(ctx,
		"SELECT id, user_id, token, expires_at, revoked_at FROM refresh_tokens WHERE token = $1",
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("refresh token: %w", api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query refresh token: %w", err)
	}
	return &t, nil
}

// InvalidateRefreshToken revokes one token. Already revoked or unknown
// tokens are left alone.
func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := startSpan(ctx, "InvalidateRefreshToken", "UPDATE", "refresh_tokens")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "refresh_tokens.revoke", start, err) }(time.Now())

	_, err = r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL",
		token)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "InvalidateAllUserRefreshTokens", "UPDATE", "refresh_tokens")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "refresh_tokens.revoke_all", start, err) }(time.Now())

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL",
		userID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	r.logger.InfoContext(ctx, "Revoked refresh tokens",
		slog.String("userID", userID.String()), slog.Int64("count", tag.RowsAffected()))
	return nil
}
