package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestGetInitializesInstruments(t *testing.T) {
	m := Get()
	require.NotNil(t, m)
	assert.Same(t, m, Get())

	assert.NotNil(t, m.TripsCreatedTotal)
	assert.NotNil(t, m.ItineraryGenerationsTotal)
	assert.NotNil(t, m.ItineraryFallbacksTotal)
	assert.NotNil(t, m.AIGenerationDurationSeconds)
	assert.NotNil(t, m.EnrichmentLookupsTotal)
	assert.NotNil(t, m.DbQueryDurationSeconds)
	assert.NotNil(t, m.DbQueryErrorsTotal)

	assert.NotPanics(t, func() {
		m.ItineraryFallbacksTotal.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("reason", "no_json")))
	})
}

func TestObserveQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		Get().ObserveQuery(context.Background(), "trips.insert", time.Now(), nil)
		Get().ObserveQuery(context.Background(), "trips.insert", time.Now(), errors.New("boom"))
	})
}
