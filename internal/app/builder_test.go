package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overtext/splash-server/internal/config"
)

// createValidTestConfig returns a local-only configuration so tests never
// touch the network.
func createValidTestConfig() *config.Config {
	return &config.Config{
		Splashes: config.SplashSource{
			Local: []string{"Hello world!", "Now in color!"},
		},
	}
}

type staticFetcher struct {
	lines []string
}

func (f *staticFetcher) Fetch(_ context.Context, _ string) ([]string, error) {
	return f.lines, nil
}

func TestBaseConfigDefaults(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithConfig(createValidTestConfig()))
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, defaultHTTPAddress, built.address)
	assert.Equal(t, defaultRequestTimeout, built.requestTimeout)
	assert.Equal(t, defaultReadTimeout, built.readTimeout)
	assert.Equal(t, defaultWriteTimeout, built.writeTimeout)
	assert.Equal(t, defaultIdleTimeout, built.idleTimeout)
}

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "valid port only", addr: ":9090"},
		{name: "valid host and port", addr: "127.0.0.1:9090"},
		{name: "localhost", addr: "localhost:9090"},
		{name: "empty address", addr: "", wantErr: true},
		{name: "missing port", addr: ":", wantErr: true},
		{name: "no colon", addr: "9090", wantErr: true},
		{name: "garbage port", addr: ":notaport", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			built, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress(tt.addr))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, built)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, built.address)
		})
	}
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	built, err := baseConfig(WithConfig(createValidTestConfig()), WithMiddlewares(mw, mw))
	require.NoError(t, err)
	assert.Len(t, built.middlewares, 2)
}

func TestWithFetcher(t *testing.T) {
	t.Parallel()

	fetcher := &staticFetcher{lines: []string{"A"}}
	built, err := baseConfig(WithConfig(createValidTestConfig()), WithFetcher(fetcher))
	require.NoError(t, err)
	assert.Same(t, fetcher, built.fetcher)
}

func TestBuildServiceComponents(t *testing.T) {
	t.Parallel()

	cfg, err := baseConfig(WithConfig(createValidTestConfig()))
	require.NoError(t, err)

	res, svc, err := buildServiceComponents(cfg)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, svc)

	// A default fetcher is installed when none is injected
	assert.NotNil(t, cfg.fetcher)

	splashes := svc.ListSplashes(context.Background())
	assert.Equal(t, []string{"Hello world!", "Now in color!"}, splashes)
}

func TestBuildHTTPServer(t *testing.T) {
	t.Parallel()

	t.Run("default middlewares", func(t *testing.T) {
		t.Parallel()
		cfg, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress(":9191"))
		require.NoError(t, err)

		_, svc, err := buildServiceComponents(cfg)
		require.NoError(t, err)

		server, err := buildHTTPServer(cfg, svc)
		require.NoError(t, err)
		assert.Equal(t, ":9191", server.Addr)
		assert.Equal(t, defaultReadTimeout, server.ReadTimeout)
		assert.Equal(t, defaultWriteTimeout, server.WriteTimeout)
		assert.Equal(t, defaultIdleTimeout, server.IdleTimeout)
		assert.NotEmpty(t, cfg.middlewares)
	})

	t.Run("custom middlewares preserved", func(t *testing.T) {
		t.Parallel()
		mw := func(next http.Handler) http.Handler { return next }
		cfg, err := baseConfig(WithConfig(createValidTestConfig()), WithMiddlewares(mw))
		require.NoError(t, err)

		_, svc, err := buildServiceComponents(cfg)
		require.NoError(t, err)

		_, err = buildHTTPServer(cfg, svc)
		require.NoError(t, err)
		assert.Len(t, cfg.middlewares, 1)
	})
}

func TestNewSplashApp(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		app, err := NewSplashApp(context.Background())
		require.Error(t, err)
		assert.Nil(t, app)
		assert.Contains(t, err.Error(), "config cannot be nil")
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()
		app, err := NewSplashApp(context.Background(),
			WithConfig(createValidTestConfig()),
			WithAddress("not-an-address"),
		)
		require.Error(t, err)
		assert.Nil(t, app)
	})

	t.Run("valid local config", func(t *testing.T) {
		t.Parallel()
		cfg := createValidTestConfig()
		app, err := NewSplashApp(context.Background(), WithConfig(cfg))
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Same(t, cfg, app.GetConfig())
		assert.NotNil(t, app.GetService())
		assert.NotNil(t, app.GetHTTPServer())
	})
}
