package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/lumehq/customeriq/backend/internal/api/handlers"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(analyticsHandler *handlers.AnalyticsHandler, refreshHandler *handlers.RefreshHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Segmentation endpoints
	api.HandleFunc("/segments", analyticsHandler.GetSegments).Methods("GET")
	api.HandleFunc("/segments/summary", analyticsHandler.GetSegmentSummary).Methods("GET")
	api.HandleFunc("/segments/latest", analyticsHandler.GetLatestRun).Methods("GET")
	api.HandleFunc("/segments/{customerID}", analyticsHandler.GetCustomerSegment).Methods("GET")

	// Cohort endpoints
	api.HandleFunc("/cohorts/retention", analyticsHandler.GetRetention).Methods("GET")

	// Journey endpoints
	api.HandleFunc("/journey/sequences", analyticsHandler.GetSequences).Methods("GET")

	// Refresh endpoints
	api.HandleFunc("/refresh", refreshHandler.Refresh).Methods("POST")
	api.HandleFunc("/refresh/ws", refreshHandler.RefreshWS).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	api.Use(rateLimitMiddleware(rate.Limit(10), 20))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "customeriq-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware bounds the request rate across all API clients.
func rateLimitMiddleware(limit rate.Limit, burst int) mux.MiddlewareFunc {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
