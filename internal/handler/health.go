package handler

import (
	"net/http"

	"github.com/caretrack/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler reports service health.
type HealthHandler struct {
	db    *pgxpool.Pool
	cache *repository.SubscriptionCache // nil when caching is disabled
}

func NewHealthHandler(db *pgxpool.Pool, cache *repository.SubscriptionCache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		status["cache"] = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			// Cache is best-effort; a cache outage does not fail health.
			status["cache"] = "unreachable"
		}
	}

	JSON(w, code, status)
}
