// internal/handlers/health.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      ports.Database
	cache   ports.CacheRepository
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db ports.Database, cache ports.CacheRepository, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		version: version,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"time":    time.Now().UTC(),
	})
}

// Ready handles GET /ready, probing the backing stores
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]interface{}{
		"database": h.db.Health(r.Context()),
	}

	if err := h.cache.Ping(r.Context()); err != nil {
		checks["redis"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = map[string]string{"status": "healthy"}
	}

	if dbHealth, ok := checks["database"].(map[string]interface{}); ok {
		if dbHealth["status"] != "healthy" {
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
