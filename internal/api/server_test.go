package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overtext/splash-server/internal/api"
	v0 "github.com/overtext/splash-server/internal/api/v0"
	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/resolver"
	"github.com/overtext/splash-server/internal/service"
)

// newLocalServer wires a real service over a local-only source so no
// network traffic is possible.
func newLocalServer(t *testing.T, local []string, opts ...api.ServerOption) *httptest.Server {
	t.Helper()

	svc := service.New(resolver.New(nil), config.SplashSource{Local: local})
	server := httptest.NewServer(api.NewServer(svc, opts...))
	t.Cleanup(server.Close)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server := newLocalServer(t, nil)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var response map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.Equal(t, "healthy", response["status"])
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	server := newLocalServer(t, nil)

	resp, err := http.Get(server.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.NotEmpty(t, response["version"])
	assert.NotEmpty(t, response["go_version"])
}

func TestSplashEndpoints(t *testing.T) {
	t.Parallel()

	server := newLocalServer(t, []string{"Hello world!", "Now in color!"})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(server.URL + "/v0/splashes")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list v0.SplashListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, []string{"Hello world!", "Now in color!"}, list.Splashes)
		assert.Equal(t, 2, list.Count)
	})

	t.Run("random", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(server.URL + "/v0/splashes/random")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var random v0.RandomSplashResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&random))
		assert.Contains(t, []string{"Hello world!", "Now in color!"}, random.Splash)
	})

	t.Run("info", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(server.URL + "/v0/info")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info service.SplashInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		assert.Equal(t, "local", info.Tier)
		assert.Equal(t, 2, info.Count)
	})

	t.Run("refresh", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Post(server.URL+"/v0/refresh", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var refresh v0.RefreshResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&refresh))
		assert.Equal(t, "invalidated", refresh.Status)
	})
}

func TestRandomSplashEmptyList(t *testing.T) {
	t.Parallel()

	server := newLocalServer(t, nil)

	resp, err := http.Get(server.URL + "/v0/splashes/random")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	headerMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test-Middleware", "applied")
			next.ServeHTTP(w, r)
		})
	}

	server := newLocalServer(t, nil, api.WithMiddlewares(headerMW, api.LoggingMiddleware))

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "applied", resp.Header.Get("X-Test-Middleware"))
}

func TestWithMetricsHandler(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# scrape me"))
	})

	server := newLocalServer(t, nil, api.WithMetricsHandler(metrics))

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsNotMountedByDefault(t *testing.T) {
	t.Parallel()

	server := newLocalServer(t, nil)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
