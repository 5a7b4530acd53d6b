package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository stores the prompts sent to the AI provider and what came back.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewRepository(pgpool database.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (id uuid.UUID, err error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SaveInteraction", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "llm_interactions"),
	))
	defer span.End()
	defer func(start time.Time) { metrics.Get().ObserveQuery(ctx, "llm_interactions.insert", start, err) }(time.Now())

	var userID any
	if interaction.UserID != uuid.Nil {
		userID = interaction.UserID
	}

	query := `
		INSERT INTO llm_interactions (user_id, prompt, response_text, model_used, latency_ms, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err = r.pgpool.QueryRow(ctx, query,
		userID, interaction.Prompt, interaction.ResponseText,
		interaction.ModelUsed, interaction.LatencyMs, interaction.Outcome,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, fmt.Errorf("failed to save llm interaction: %w", err)
	}
	return id, nil
}
