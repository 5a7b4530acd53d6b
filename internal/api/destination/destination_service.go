package destination

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	DefaultPopularLimit = 10
	MaxPopularLimit     = 50
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	RecordTrip(ctx context.Context, name string) (*types.Destination, error)
	GetDestination(ctx context.Context, id uuid.UUID) (*types.Destination, error)
	ListPopular(ctx context.Context, limit int) ([]types.Destination, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) RecordTrip(ctx context.Context, name string) (*types.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "RecordTrip", trace.WithAttributes(
		attribute.String("destination", name),
	))
	defer span.End()

	dest, err := s.repo.Upsert(ctx, name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "Destination recorded",
		slog.String("slug", dest.Slug), slog.Int("trip_count", dest.TripCount))
	return dest, nil
}

func (s *ServiceImpl) GetDestination(ctx context.Context, id uuid.UUID) (*types.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetDestination", trace.WithAttributes(
		attribute.String("destination.id", id.String()),
	))
	defer span.End()

	dest, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return dest, nil
}

func (s *ServiceImpl) ListPopular(ctx context.Context, limit int) ([]types.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "ListPopular")
	defer span.End()

	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}
	list, err := s.repo.ListPopular(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}
