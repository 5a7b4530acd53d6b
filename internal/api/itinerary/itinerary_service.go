package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Fallback reasons reported in GenerationResult and metrics.
const (
	ReasonUnconfigured  = "unconfigured"
	ReasonProviderError = "provider_error"
	ReasonNoJSON        = "no_json"
	ReasonParseError    = "parse_error"
	ReasonEmpty         = "empty"
)

const defaultAITimeout = 45 * time.Second

var _ Service = (*ServiceImpl)(nil)

// ContentGenerator is the AI provider the service prompts.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
	ModelName() string
}

// Service produces an itinerary for a trip request. Only an invalid request
// is an error; every AI failure degrades to the fallback itinerary.
type Service interface {
	Generate(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.GenerationResult, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	ai          ContentGenerator
	repo        Repository
	timeout     time.Duration
	temperature float32
}

// NewServiceImpl wires the generator. ai may be nil, in which case every
// request is served by the fallback generator.
func NewServiceImpl(ai ContentGenerator, repo Repository, cfg config.GeminiConfig, logger *slog.Logger) *ServiceImpl {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &ServiceImpl{
		logger:      logger,
		ai:          ai,
		repo:        repo,
		timeout:     timeout,
		temperature: cfg.Temperature,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.GenerationResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("day_count", req.DayCount),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("destination", req.Destination))

	if err := ValidateTripRequest(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid trip request")
		return nil, err
	}

	if s.ai == nil {
		return s.fallback(ctx, l, req, ReasonUnconfigured), nil
	}

	prompt := BuildItineraryPrompt(req)
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.ai.GenerateContent(callCtx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(s.temperature),
		ResponseMIMEType: "application/json",
	})
	latency := time.Since(start)
	metrics.Get().AIGenerationDurationSeconds.Record(ctx, latency.Seconds())

	interaction := types.LlmInteraction{
		UserID:       userID,
		Prompt:       prompt,
		ResponseText: text,
		ModelUsed:    s.ai.ModelName(),
		LatencyMs:    int(latency.Milliseconds()),
	}

	if err != nil {
		l.WarnContext(ctx, "AI provider call failed, using fallback itinerary", slog.Any("error", err))
		span.RecordError(err)
		interaction.Outcome = ReasonProviderError
		s.saveInteraction(ctx, l, interaction)
		return s.fallback(ctx, l, req, ReasonProviderError), nil
	}

	candidate, err := ParseCandidate(text)
	if err != nil {
		reason := parseFailureReason(err)
		l.WarnContext(ctx, "AI response unusable, using fallback itinerary",
			slog.String("reason", reason), slog.Any("error", err))
		interaction.Outcome = reason
		s.saveInteraction(ctx, l, interaction)
		return s.fallback(ctx, l, req, reason), nil
	}

	interaction.Outcome = string(types.SourceAI)
	s.saveInteraction(ctx, l, interaction)

	it := Normalize(candidate, req)
	metrics.Get().ItineraryGenerationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", string(types.SourceAI))))
	l.InfoContext(ctx, "Itinerary generated", slog.Int("days", len(it.Days)), slog.Duration("latency", latency))

	return &types.GenerationResult{Itinerary: it, Source: types.SourceAI}, nil
}

func (s *ServiceImpl) fallback(ctx context.Context, l *slog.Logger, req types.TripRequest, reason string) *types.GenerationResult {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("fallback_reason", reason))
	m := metrics.Get()
	m.ItineraryFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	m.ItineraryGenerationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", string(types.SourceFallback))))
	l.InfoContext(ctx, "Serving fallback itinerary", slog.String("reason", reason))

	return &types.GenerationResult{
		Itinerary:      Fallback(req),
		Source:         types.SourceFallback,
		FallbackReason: reason,
	}
}

// saveInteraction records the exchange without letting storage failures
// reach the caller.
func (s *ServiceImpl) saveInteraction(ctx context.Context, l *slog.Logger, interaction types.LlmInteraction) {
	if s.repo == nil {
		return
	}
	if _, err := s.repo.SaveInteraction(context.WithoutCancel(ctx), interaction); err != nil {
		l.WarnContext(ctx, "Failed to save LLM interaction", slog.Any("error", err))
	}
}

func parseFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoJSON):
		return ReasonNoJSON
	case errors.Is(err, ErrEmptyCandidate):
		return ReasonEmpty
	default:
		return ReasonParseError
	}
}
