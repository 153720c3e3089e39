package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ResolverMetricsMeterName is the name used for the resolver metrics meter
	ResolverMetricsMeterName = "github.com/overtext/splash-server/resolver"
)

// ResolverMetrics holds the OpenTelemetry instruments for resolver metrics
type ResolverMetrics struct {
	cacheHits     metric.Int64Counter
	builds        metric.Int64Counter
	fetchFailures metric.Int64Counter
}

// NewResolverMetrics creates a new ResolverMetrics instance with the given
// meter provider. If provider is nil, it returns nil (no-op metrics).
func NewResolverMetrics(provider metric.MeterProvider) (*ResolverMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ResolverMetricsMeterName)

	cacheHits, err := meter.Int64Counter(
		"splashd_resolver_cache_hits_total",
		metric.WithDescription("Number of resolve calls served from the cached list"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	builds, err := meter.Int64Counter(
		"splashd_resolver_builds_total",
		metric.WithDescription("Number of splash list builds, by outcome tier"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, err
	}

	fetchFailures, err := meter.Int64Counter(
		"splashd_resolver_remote_fetch_failures_total",
		metric.WithDescription("Number of failed or empty remote splash fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	return &ResolverMetrics{
		cacheHits:     cacheHits,
		builds:        builds,
		fetchFailures: fetchFailures,
	}, nil
}

// RecordCacheHit records a resolve call answered from the cache
func (m *ResolverMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

// RecordBuild records a completed splash list build and its outcome tier
func (m *ResolverMetrics) RecordBuild(ctx context.Context, tier string) {
	if m == nil || m.builds == nil {
		return
	}
	m.builds.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

// RecordFetchFailure records a failed or empty remote fetch
func (m *ResolverMetrics) RecordFetchFailure(ctx context.Context) {
	if m == nil || m.fetchFailures == nil {
		return
	}
	m.fetchFailures.Add(ctx, 1)
}
