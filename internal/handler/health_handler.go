package handler

import (
	"net/http"
	"time"

	"ytharvest/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.container.Logger

	status := "healthy"
	checks := map[string]string{}

	if err := h.container.DB.Health(ctx); err != nil {
		log.WithError(err).Error("database health check failed")
		checks["database"] = err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
	}

	if h.container.HasRedis() {
		if err := h.container.RedisClient.Health(ctx); err != nil {
			log.WithError(err).Warn("redis health check failed")
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   "ytharvest",
		Checks:    checks,
	})
}
