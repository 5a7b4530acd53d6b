package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Enricher attaches place details to an itinerary in place.
type Enricher interface {
	Enrich(ctx context.Context, it *types.Itinerary) types.EnrichmentReport
}

// DestinationRecorder counts trips per destination.
type DestinationRecorder interface {
	RecordTrip(ctx context.Context, name string) (*types.Destination, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTrips, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	RegenerateItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	repo         Repository
	generator    itinerary.Service
	enricher     Enricher
	destinations DestinationRecorder
}

// NewServiceImpl wires the trip service. enricher and destinations may be
// nil; trips are then stored without place details or destination counts.
func NewServiceImpl(repo Repository, generator itinerary.Service, enricher Enricher, destinations DestinationRecorder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		repo:         repo,
		generator:    generator,
		enricher:     enricher,
		destinations: destinations,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, in types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("destination", in.Destination),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	req, err := BuildTripRequest(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid trip request")
		return nil, err
	}

	result, report, err := s.generate(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "itinerary generation failed")
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultTitle(req)
	}

	created, err := s.repo.CreateTrip(ctx, &types.Trip{
		UserID:          userID,
		Title:           title,
		Origin:          req.Origin,
		Destination:     req.Destination,
		StartDate:       datePtr(req.StartDate),
		EndDate:         datePtr(req.EndDate),
		Days:            req.DayCount,
		Budget:          req.Budget,
		TotalBudget:     req.TotalBudget,
		PlannedBudget:   plannedBudget(req, result.Itinerary),
		TravelType:      req.TravelType,
		MemberCount:     req.MemberCount,
		Preferences:     req.Preferences,
		Notes:           in.Notes,
		Itinerary:       result.Itinerary,
		ItinerarySource: result.Source,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to store trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "store trip failed")
		return nil, fmt.Errorf("error creating trip: %w", err)
	}
	created.Enrichment = report

	metrics.Get().TripsCreatedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", string(result.Source))))
	s.recordDestination(ctx, l, req.Destination)

	l.InfoContext(ctx, "Trip created",
		slog.String("tripID", created.ID.String()),
		slog.Int("days", created.Days),
		slog.String("source", string(result.Source)))
	span.SetAttributes(attribute.String("trip.id", created.ID.String()))
	return created, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return t, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTrips, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	))
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	trips, total, err := s.repo.ListTrips(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error listing trips: %w", err)
	}
	return &types.PaginatedTrips{
		Trips:    trips,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.UpdateTrip(ctx, userID, tripID, req); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.repo.GetTrip(ctx, userID, tripID)
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.InfoContext(ctx, "Trip deleted",
		slog.String("tripID", tripID.String()), slog.String("userID", userID.String()))
	return nil
}

// RegenerateItinerary replaces a trip's itinerary with a freshly generated
// one. The owner's planned budget keeps the value recorded at creation.
func (s *ServiceImpl) RegenerateItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "RegenerateItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result, report, err := s.generate(ctx, userID, TripRequestFromTrip(t))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err = s.repo.ReplaceItinerary(ctx, userID, tripID, result.Itinerary, result.Source); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error regenerating itinerary: %w", err)
	}

	t.Itinerary = result.Itinerary
	t.ItinerarySource = result.Source
	t.Enrichment = report
	s.logger.InfoContext(ctx, "Itinerary regenerated",
		slog.String("tripID", tripID.String()), slog.String("source", string(result.Source)))
	return t, nil
}

func (s *ServiceImpl) generate(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.GenerationResult, *types.EnrichmentReport, error) {
	result, err := s.generator.Generate(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}
	if s.enricher == nil {
		return result, nil, nil
	}
	report := s.enricher.Enrich(ctx, &result.Itinerary)
	return result, &report, nil
}

// recordDestination never fails the trip; the count is informational.
func (s *ServiceImpl) recordDestination(ctx context.Context, l *slog.Logger, name string) {
	if s.destinations == nil {
		return
	}
	if _, err := s.destinations.RecordTrip(context.WithoutCancel(ctx), name); err != nil {
		l.WarnContext(ctx, "Failed to record destination", slog.String("destination", name), slog.Any("error", err))
	}
}
