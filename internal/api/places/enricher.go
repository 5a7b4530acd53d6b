package places

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	minPhotos          = 3
	maxPhotos          = 5
	defaultCallTimeout = 4 * time.Second
)

// Enricher adds place details and photos to itinerary activities. A failed
// lookup only affects the activity it was made for.
type Enricher struct {
	provider    Provider
	logger      *slog.Logger
	concurrency int
	callTimeout time.Duration
	photoLimit  int
}

func NewEnricher(provider Provider, cfg config.PlacesConfig, logger *slog.Logger) *Enricher {
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &Enricher{
		provider:    provider,
		logger:      logger,
		concurrency: max(cfg.Concurrency, 1),
		callTimeout: callTimeout,
		photoLimit:  min(max(cfg.PhotoLimit, minPhotos), maxPhotos),
	}
}

// Enrich looks every named activity up and fills in its place id, address,
// rating, map link and photos. Activities are only modified when both the
// place and the photo lookups succeed.
func (e *Enricher) Enrich(ctx context.Context, it *types.Itinerary) types.EnrichmentReport {
	ctx, span := otel.Tracer("PlacesEnricher").Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("destination", it.Destination),
	))
	defer span.End()

	var attempted, enriched, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for d := range it.Days {
		for a := range it.Days[d].Activities {
			act := &it.Days[d].Activities[a]
			if act.Name == "" || act.Type == types.ActivityTransport || len(act.Photos) > 0 {
				continue
			}
			attempted.Add(1)

			g.Go(func() error {
				result := "enriched"
				if err := e.enrichActivity(gctx, act, it.Destination); err != nil {
					failed.Add(1)
					result = "error"
					if errors.Is(err, ErrNoMatch) {
						result = "no_match"
					}
					e.logger.DebugContext(gctx, "Activity enrichment skipped",
						slog.String("activity", act.Name),
						slog.String("result", result),
						slog.Any("error", err))
				} else {
					enriched.Add(1)
				}
				metrics.Get().EnrichmentLookupsTotal.Add(gctx, 1,
					metric.WithAttributes(attribute.String("result", result)))
				return nil
			})
		}
	}
	_ = g.Wait()

	report := types.EnrichmentReport{
		Attempted: int(attempted.Load()),
		Enriched:  int(enriched.Load()),
		Failed:    int(failed.Load()),
	}
	span.SetAttributes(
		attribute.Int("enrichment.attempted", report.Attempted),
		attribute.Int("enrichment.enriched", report.Enriched),
	)
	e.logger.InfoContext(ctx, "Itinerary enrichment finished",
		slog.Int("attempted", report.Attempted),
		slog.Int("enriched", report.Enriched),
		slog.Int("failed", report.Failed))
	return report
}

func (e *Enricher) enrichActivity(ctx context.Context, act *types.Activity, destination string) error {
	searchCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	match, err := e.provider.SearchPlace(searchCtx, act.Name, destination)
	cancel()
	if err != nil {
		return err
	}

	photoCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	photos, err := e.provider.GetPhotos(photoCtx, match.PlaceID, e.photoLimit)
	cancel()
	if err != nil {
		return err
	}

	act.PlaceID = match.PlaceID
	if match.Address != "" {
		act.Address = match.Address
	}
	if match.Rating != nil {
		r := *match.Rating
		act.Rating = &r
	}
	if match.MapsURI != "" {
		act.MapURL = match.MapsURI
	}
	if len(photos) > 0 {
		act.Photos = photos
	}
	return nil
}
