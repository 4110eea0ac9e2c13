package httpapi

import (
	"net/http"
	"time"

	"github.com/dshills/nhs-mcp/internal/mcp"
)

// handleHealth serves GET /healthz. It reports liveness only
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady serves GET /ready: ready once a backend subscription key is configured
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		writeJSON(w, r, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, map[string]string{"status": "ready"})
}

// handleServiceHealth serves GET /api/health with service identity
func (h *Handler) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.logger, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   mcp.ServerName,
		"version":   mcp.ServerVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
