package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/finzo/backend/internal/api/handlers"
	"github.com/finzo/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	recHandler *handlers.RecommendationsHandler,
	profileHandler *handlers.ProfileHandler,
	marketHandler *handlers.MarketHandler,
	streamHandler *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Recommendation endpoints
	api.HandleFunc("/recommendations", recHandler.GetBundle).Methods("POST")
	api.HandleFunc("/recommendations/stocks", recHandler.GetStocks).Methods("POST")
	api.HandleFunc("/recommendations/mutual-funds", recHandler.GetMutualFunds).Methods("POST")
	api.HandleFunc("/recommendations/commodities", recHandler.GetCommodities).Methods("POST")
	api.HandleFunc("/recommendations/sip", recHandler.GetSIPs).Methods("POST")

	// Profile analysis endpoints
	api.HandleFunc("/profile/capacity", profileHandler.GetCapacity).Methods("POST")
	api.HandleFunc("/profile/allocation", profileHandler.GetAllocation).Methods("POST")
	api.HandleFunc("/profile/guidance", profileHandler.GetGuidance).Methods("POST")

	// Market data endpoints
	api.HandleFunc("/market/snapshot", marketHandler.GetSnapshot).Methods("GET")
	api.HandleFunc("/market/refresh", marketHandler.Refresh).Methods("POST")
	api.HandleFunc("/market/live", streamHandler.Live).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "finzo-api",
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
