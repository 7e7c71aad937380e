package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/prperemyshlev/storefront/internal/service"

// Metrics holds the domain counters recorded by the services
type Metrics struct {
	authEvents     metric.Int64Counter
	catalogQueries metric.Int64Counter
	tokenReuse     metric.Int64Counter
}

// NewMetrics registers the counters on the given provider
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	authEvents, err := meter.Int64Counter("storefront.auth.events",
		metric.WithDescription("Authentication operations by event and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth events counter: %w", err)
	}

	catalogQueries, err := meter.Int64Counter("storefront.catalog.queries",
		metric.WithDescription("Product listing queries by cache result"))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog queries counter: %w", err)
	}

	tokenReuse, err := meter.Int64Counter("storefront.auth.refresh_token_reuse",
		metric.WithDescription("Rotated refresh tokens presented again"))
	if err != nil {
		return nil, fmt.Errorf("failed to create token reuse counter: %w", err)
	}

	return &Metrics{
		authEvents:     authEvents,
		catalogQueries: catalogQueries,
		tokenReuse:     tokenReuse,
	}, nil
}

// NoopMetrics returns counters that record nothing
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

func (m *Metrics) authEvent(ctx context.Context, event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) catalogQuery(ctx context.Context, cache string) {
	m.catalogQueries.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", cache)))
}

func (m *Metrics) refreshTokenReuse(ctx context.Context) {
	m.tokenReuse.Add(ctx, 1)
}
