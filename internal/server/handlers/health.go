package handlers

import (
	"log/slog"
	"net/http"
)

// HealthHandler serves the monitoring health check.
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler creates the health check handler.
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
