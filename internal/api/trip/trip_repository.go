package trip

import (
	"context"
	"encoding/json"
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

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists trips. Every method is scoped to the owning user; a
// trip owned by someone else is reported as api.ErrNotFound.
type Repository interface {
	// CreateTrip inserts the trip and bumps the owner's stats in one transaction.
	CreateTrip(ctx context.Context, trip *types.Trip) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TripSummary, int, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params types.UpdateTripRequest) error
	// DeleteTrip removes the trip and takes it back out of the owner's stats.
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	ReplaceItinerary(ctx context.Context, userID, tripID uuid.UUID, it types.Itinerary, source types.GenerationSource) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewRepositoryImpl(pgpool database.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return otel.Tracer("TripRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "trips"),
	))
}

func (r *RepositoryImpl) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
	}
}

func (r *RepositoryImpl) CreateTrip(ctx context.Context, t *types.Trip) (created *types.Trip, err error) {
	ctx, span := startSpan(ctx, "CreateTrip", "INSERT")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.insert", start, err) }(time.Now())

	itineraryJSON, err := json.Marshal(t.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode itinerary: %w", err)
	}

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	query := `
		INSERT INTO trips (
			user_id, title, origin, destination, start_date, end_date, days,
			budget_tier, total_budget, planned_budget, travel_type, member_count,
			preferences, notes, itinerary, itinerary_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, status, created_at, updated_at`
	out := *t
	var status string
	err = tx.QueryRow(ctx, query,
		t.UserID, t.Title, t.Origin, t.Destination, t.StartDate, t.EndDate, t.Days,
		string(t.Budget), t.TotalBudget, t.PlannedBudget, string(t.TravelType), t.MemberCount,
		t.Preferences, t.Notes, itineraryJSON, string(t.ItinerarySource),
	).Scan(&out.ID, &status, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		r.rollback(ctx, tx)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}
	out.Status = types.TripStatus(status)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET trips_count = trips_count + 1,
		    days_planned = days_planned + $2,
		    budget_planned = budget_planned + $3,
		    updated_at = NOW()
		WHERE id = $1`,
		t.UserID, t.Days, t.PlannedBudget)
	if err != nil {
		r.rollback(ctx, tx)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update user stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.rollback(ctx, tx)
		return nil, fmt.Errorf("trip owner %s: %w", t.UserID, api.ErrNotFound)
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetAttributes(attribute.String("trip.id", out.ID.String()))
	return &out, nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (t *types.Trip, err error) {
	ctx, span := startSpan(ctx, "GetTrip", "SELECT")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.select", start, err) }(time.Now())

	query := `
		SELECT id, user_id, title, origin, destination, start_date, end_date, days,
		       budget_tier, total_budget, planned_budget, travel_type, member_count,
		       preferences, status, notes, itinerary, itinerary_source, created_at, updated_at
		FROM trips
		WHERE id = $1 AND user_id = $2`

	var (
		trip                               types.Trip
		budget, travelType, status, source string
		itineraryJSON                      []byte
	)
	err = r.pgpool.QueryRow(ctx, query, tripID, userID).Scan(
		&trip.ID, &trip.UserID, &trip.Title, &trip.Origin, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.Days,
		&budget, &trip.TotalBudget, &trip.PlannedBudget, &travelType, &trip.MemberCount,
		&trip.Preferences, &status, &trip.Notes, &itineraryJSON, &source, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	if err = json.Unmarshal(itineraryJSON, &trip.Itinerary); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode itinerary of trip %s: %w", tripID, err)
	}

	trip.Budget = types.BudgetTier(budget)
	trip.TravelType = types.TravelType(travelType)
	trip.Status = types.TripStatus(status)
	trip.ItinerarySource = types.GenerationSource(source)
	return &trip, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) (list []types.TripSummary, total int, err error) {
	ctx, span := startSpan(ctx, "ListTrips", "SELECT")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.list", start, err) }(time.Now())

	if err = r.pgpool.QueryRow(ctx, "SELECT COUNT(*) FROM trips WHERE user_id = $1", userID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	query := `
		SELECT id, title, destination, start_date, days, budget_tier, status, created_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pgpool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	list = make([]types.TripSummary, 0, limit)
	for rows.Next() {
		var (
			s              types.TripSummary
			budget, status string
		)
		if err = rows.Scan(&s.ID, &s.Title, &s.Destination, &s.StartDate, &s.Days, &budget, &status, &s.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("failed to scan trip row: %w", err)
		}
		s.Budget = types.BudgetTier(budget)
		s.Status = types.TripStatus(status)
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return list, total, nil
}

func (r *RepositoryImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params types.UpdateTripRequest) (err error) {
	ctx, span := startSpan(ctx, "UpdateTrip", "UPDATE")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.update", start, err) }(time.Now())

	var setClauses []string
	var args []any
	argID := 1

	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, strings.TrimSpace(*params.Title))
		argID++
	}
	if params.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", argID))
		args = append(args, *params.Notes)
		argID++
	}
	if params.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argID))
		args = append(args, string(*params.Status))
		argID++
	}

	if len(setClauses) == 0 {
		r.logger.DebugContext(ctx, "UpdateTrip called with no fields to update", slog.String("tripID", tripID.String()))
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE trips SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(setClauses, ", "), argID, argID+1)
	args = append(args, tripID, userID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "DeleteTrip", "DELETE")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.delete", start, err) }(time.Now())

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	var days, budget int
	err = tx.QueryRow(ctx,
		"DELETE FROM trips WHERE id = $1 AND user_id = $2 RETURNING days, planned_budget",
		tripID, userID).Scan(&days, &budget)
	if err != nil {
		r.rollback(ctx, tx)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET trips_count = GREATEST(trips_count - 1, 0),
		    days_planned = GREATEST(days_planned - $2, 0),
		    budget_planned = GREATEST(budget_planned - $3, 0),
		    updated_at = NOW()
		WHERE id = $1`,
		userID, days, budget)
	if err != nil {
		r.rollback(ctx, tx)
		span.RecordError(err)
		return fmt.Errorf("failed to update user stats: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) ReplaceItinerary(ctx context.Context, userID, tripID uuid.UUID, it types.Itinerary, source types.GenerationSource) (err error) {
	ctx, span := startSpan(ctx, "ReplaceItinerary", "UPDATE")
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "trips.replace_itinerary", start, err) }(time.Now())

	itineraryJSON, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE trips SET itinerary = $1, itinerary_source = $2, updated_at = NOW() WHERE id = $3 AND user_id = $4",
		itineraryJSON, string(source), tripID, userID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to replace itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}
