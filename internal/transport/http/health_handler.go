package http

import (
	"net/http"

	"github.com/go-chi/render"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	service HealthServiceInterface
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service HealthServiceInterface) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())
	if status.Status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}
