// Package app provides application lifecycle management for the splash server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/service"
)

// SplashApp encapsulates all components needed to run the splash API server
// It provides lifecycle management and graceful shutdown capabilities
type SplashApp struct {
	// configMu guards config, which is replaced from the signal-handling
	// goroutine on reload while readers may hold GetConfig.
	configMu   sync.RWMutex
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the HTTP server
// This method blocks until the server stops or encounters an error
func (app *SplashApp) Start() error {
	logger.Infof("Server listening on %s", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout
func (app *SplashApp) Stop(timeout time.Duration) error {
	logger.Info("Shutting down server...")

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// Reload applies a freshly loaded configuration to the running service.
// Only the splash source is swapped; the listen address and middleware
// chain stay as they were at startup.
func (app *SplashApp) Reload(cfg *config.Config) {
	app.configMu.Lock()
	app.config = cfg
	app.configMu.Unlock()

	app.components.SplashService.Reload(cfg.Splashes)
}

// GetConfig returns the application configuration
func (app *SplashApp) GetConfig() *config.Config {
	app.configMu.RLock()
	defer app.configMu.RUnlock()
	return app.config
}

// GetService returns the splash service
func (app *SplashApp) GetService() service.SplashService {
	return app.components.SplashService
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *SplashApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
