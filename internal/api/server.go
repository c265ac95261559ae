// Package api provides the HTTP server for Stride. It exposes the streak
// engines and planner to UI clients as a small JSON API, plus health and
// Prometheus metrics endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stridehq/stride/internal/app/activity"
	"github.com/stridehq/stride/internal/app/freedom"
	"github.com/stridehq/stride/internal/app/planner"
	"github.com/stridehq/stride/internal/app/streak"
	"github.com/stridehq/stride/internal/health"
	"github.com/stridehq/stride/internal/infra/metrics"
)

// Server is the Stride HTTP API server.
type Server struct {
	streak         *streak.Service
	freedom        *freedom.Service
	activity       *activity.Service
	planner        *planner.Service
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server over the engine services.
func NewServer(st *streak.Service, fr *freedom.Service, ac *activity.Service, pl *planner.Service) *Server {
	return &Server{streak: st, freedom: fr, activity: ac, planner: pl}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth sets the health checker surfaced on /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/streak", s.handleGetStreak)
		r.Post("/streak/record", s.handleRecordStreak)

		r.Get("/freedom", s.handleGetFreedom)
		r.Post("/freedom/clean", s.handleFreedomClean)
		r.Post("/freedom/broke", s.handleFreedomBroke)

		r.Get("/activity", s.handleGetActivity)
		r.Post("/activity/record", s.handleRecordActivity)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleAddItem)
		r.Post("/items/{itemID}/complete", s.handleCompleteItem)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	statuses := s.health.Statuses()
	code := http.StatusOK
	for _, st := range statuses {
		if !st.Healthy {
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, map[string]any{
		"status": http.StatusText(code),
		"checks": statuses,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// metricsMiddleware counts requests by route pattern and status code.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
