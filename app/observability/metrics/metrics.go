package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TripsCreatedTotal           metric.Int64Counter
	ItineraryGenerationsTotal   metric.Int64Counter
	ItineraryFallbacksTotal     metric.Int64Counter
	AIGenerationDurationSeconds metric.Float64Histogram
	EnrichmentLookupsTotal      metric.Int64Counter
	DbQueryDurationSeconds      metric.Float64Histogram
	DbQueryErrorsTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once from the global MeterProvider.
// Instruments that fail to register fall back to no-ops and are logged.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-trip-planner")
		m := &AppMetrics{}

		m.TripsCreatedTotal = counter(meter, "trips_created_total", "Total number of trips created", "{trip}")
		m.ItineraryGenerationsTotal = counter(meter, "itinerary_generations_total", "Itineraries produced, by source", "{itinerary}")
		m.ItineraryFallbacksTotal = counter(meter, "itinerary_fallbacks_total", "Fallback itineraries, by reason", "{itinerary}")
		m.AIGenerationDurationSeconds = histogram(meter, "ai_generation_duration_seconds", "Duration of AI itinerary calls in seconds")
		m.EnrichmentLookupsTotal = counter(meter, "enrichment_lookups_total", "Place enrichment lookups, by result", "{lookup}")
		m.DbQueryDurationSeconds = histogram(meter, "db_query_duration_seconds", "Duration of database queries in seconds")
		m.DbQueryErrorsTotal = counter(meter, "db_query_errors_total", "Total number of database query errors", "{error}")

		slog.Debug("Application metrics instruments initialized")
		appMetrics = m
	})
}

// Get returns the application instruments, initializing them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// ObserveQuery records the duration of a repository call and counts it as
// an error when err is non-nil.
func (m *AppMetrics) ObserveQuery(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Error("Metrics: failed to create counter", slog.String("name", name), slog.Any("error", err))
	}
	return c
}

func histogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	if err != nil {
		slog.Error("Metrics: failed to create histogram", slog.String("name", name), slog.Any("error", err))
	}
	return h
}
