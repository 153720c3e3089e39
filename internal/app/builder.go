package app

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"

	"github.com/overtext/splash-server/internal/api"
	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/resolver"
	"github.com/overtext/splash-server/internal/service"
	"github.com/overtext/splash-server/internal/sources"
	"github.com/overtext/splash-server/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// SplashAppOptions is a function that configures the splash app builder
type SplashAppOptions func(*splashAppConfig) error

// splashAppConfig builds a SplashApp using the builder pattern
// It supports dependency injection for testing while providing sensible defaults for production
type splashAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	fetcher sources.RemoteFetcher

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...SplashAppOptions) (*splashAppConfig, error) {
	cfg := &splashAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewSplashApp creates a new builder with the given configuration
func NewSplashApp(
	ctx context.Context,
	opts ...SplashAppOptions,
) (*SplashApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Build service components
	res, svc, err := buildServiceComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	// Build HTTP server
	httpServer, err := buildHTTPServer(cfg, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	// Create application context
	appCtx, cancel := context.WithCancel(ctx)

	return &SplashApp{
		config: cfg.config,
		components: &AppComponents{
			SplashService: svc,
			Resolver:      res,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		parts := strings.SplitN(addr, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("address is not a valid host:port pair: %s", addr)
		}
		host := parts[0]
		port := parts[1]

		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithFetcher allows injecting a custom remote fetcher (for testing)
func WithFetcher(f sources.RemoteFetcher) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		cfg.fetcher = f
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for metrics
func WithMeterProvider(mp metric.MeterProvider) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithMetricsHandler mounts a Prometheus scrape handler at /metrics
func WithMetricsHandler(h http.Handler) SplashAppOptions {
	return func(cfg *splashAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildServiceComponents builds the resolver and splash service
func buildServiceComponents(b *splashAppConfig) (*resolver.Resolver, service.SplashService, error) {
	logger.Info("Initializing service components")

	if b.fetcher == nil {
		b.fetcher = sources.NewRemoteSource(nil)
	}

	var resolverOpts []resolver.Option
	if b.meterProvider != nil {
		resolverMetrics, err := telemetry.NewResolverMetrics(b.meterProvider)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create resolver metrics: %w", err)
		}
		if resolverMetrics != nil {
			resolverOpts = append(resolverOpts, resolver.WithMetrics(resolverMetrics))
			logger.Info("Resolver metrics enabled")
		}
	}

	res := resolver.New(b.fetcher, resolverOpts...)
	svc := service.New(res, b.config.Splashes)

	logger.Info("Service components initialized successfully")
	return res, svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *splashAppConfig, svc service.SplashService) (*http.Server, error) {
	logger.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Add metrics middleware if meter provider is configured
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			// Prepend so every request is captured, including ones
			// rejected later in the chain
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			logger.Info("HTTP metrics middleware enabled")
		}
	}

	serverOpts := []api.ServerOption{
		api.WithMiddlewares(b.middlewares...),
	}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}

	// Create router with middlewares
	router := api.NewServer(svc, serverOpts...)

	// Create HTTP server
	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	logger.Infof("HTTP server configured on %s", b.address)
	return server, nil
}
