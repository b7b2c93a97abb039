package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSMiddleware(cfg.CORSOrigins))
	r.Use(MaxBodyMiddleware(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/", indexHandler(cfg))
	r.Get("/health", healthHandler(cfg))
	r.Post("/analyze", analyzeHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func indexHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Pages == nil {
			WriteError(w, http.StatusNotFound, "page not found", "NOT_FOUND")
			return
		}
		if err := cfg.Pages.ServeIndex(w, r); err != nil {
			cfg.Logger.Error("landing page error", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to serve landing page", "INTERNAL_ERROR")
		}
	}
}
