package telemetry

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestNewMeterProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []MeterProviderOption
		expectNoOp bool
	}{
		{
			name:       "enabled by default",
			opts:       []MeterProviderOption{},
			expectNoOp: false,
		},
		{
			name: "returns no-op provider when disabled",
			opts: []MeterProviderOption{
				WithEnabled(false),
			},
			expectNoOp: true,
		},
		{
			name: "returns SDK provider with custom identity",
			opts: []MeterProviderOption{
				WithServiceName("splashd-test"),
				WithServiceVersion("1.2.3"),
			},
			expectNoOp: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			mp, handler, err := NewMeterProvider(ctx, tt.opts...)

			require.NoError(t, err)
			require.NotNil(t, mp)

			if tt.expectNoOp {
				_, ok := mp.(noop.MeterProvider)
				assert.True(t, ok, "expected no-op meter provider")
				assert.Nil(t, handler, "no scrape handler when disabled")
				return
			}

			_, ok := mp.(*sdkmetric.MeterProvider)
			assert.True(t, ok, "expected SDK meter provider")
			require.NotNil(t, handler)
		})
	}
}

func TestMeterProviderScrapeEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mp, handler, err := NewMeterProvider(ctx, WithServiceVersion("test"))
	require.NoError(t, err)
	require.NotNil(t, handler)

	// Record something so the scrape output is non-trivial
	metrics, err := NewResolverMetrics(mp)
	require.NoError(t, err)
	metrics.RecordCacheHit(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "splashd_resolver_cache_hits_total")
}
