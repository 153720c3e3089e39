// Package v0 provides the REST API handlers for splash text access.
package v0

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/service"
	"github.com/overtext/splash-server/internal/versions"
)

// SplashListResponse represents the full resolved splash list
type SplashListResponse struct {
	Splashes []string `json:"splashes"`
	Count    int      `json:"count"`
}

// RandomSplashResponse represents a single splash picked at random
type RandomSplashResponse struct {
	Splash string `json:"splash"`
}

// RefreshResponse confirms that the cached splash list was invalidated
type RefreshResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the splash API with dependency injection
type Routes struct {
	service service.SplashService
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.SplashService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates a new router for the splash API
func Router(svc service.SplashService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/splashes", routes.listSplashes)
	r.Get("/splashes/random", routes.randomSplash)
	r.Get("/info", routes.getInfo)
	r.Post("/refresh", routes.refresh)

	return r
}

// listSplashes handles GET /v0/splashes
func (rr *Routes) listSplashes(w http.ResponseWriter, r *http.Request) {
	splashes := rr.service.ListSplashes(r.Context())

	rr.writeJSONResponse(w, SplashListResponse{
		Splashes: splashes,
		Count:    len(splashes),
	})
}

// randomSplash handles GET /v0/splashes/random
func (rr *Routes) randomSplash(w http.ResponseWriter, r *http.Request) {
	splash, err := rr.service.RandomSplash(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSplashes) {
			rr.writeErrorResponse(w, "No splashes available", http.StatusNotFound)
			return
		}
		logger.Errorf("Failed to pick random splash: %v", err)
		rr.writeErrorResponse(w, "Failed to pick random splash", http.StatusInternalServerError)
		return
	}

	rr.writeJSONResponse(w, RandomSplashResponse{Splash: splash})
}

// getInfo handles GET /v0/info
func (rr *Routes) getInfo(w http.ResponseWriter, r *http.Request) {
	rr.writeJSONResponse(w, rr.service.Info(r.Context()))
}

// refresh handles POST /v0/refresh
func (rr *Routes) refresh(w http.ResponseWriter, r *http.Request) {
	gen := rr.service.Refresh(r.Context())

	rr.writeJSONResponse(w, RefreshResponse{
		Status:     "invalidated",
		Generation: gen,
	})
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.SplashService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
func readinessHandler(svc service.SplashService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			errorResp := ErrorResponse{
				Error: "SplashService not ready: " + err.Error(),
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if encodeErr := json.NewEncoder(w).Encode(errorResp); encodeErr != nil {
				logger.Errorf("Failed to encode readiness error response: %v", encodeErr)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	response := map[string]string{
		"version":    info.Version,
		"commit":     info.Commit,
		"build_date": info.BuildDate,
		"go_version": info.GoVersion,
		"platform":   info.Platform,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode version info: %v", err)
	}
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}
