// Package api provides the HTTP handlers of the info-screen rooms API
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/metropolia/infoscreen/internal/logging"
)

const readyTimeout = 2 * time.Second

// HealthResponse represents the response for health check endpoints
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler serves the Kubernetes probes
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a health handler checking store on readiness
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live handles liveness probe requests
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

// Ready handles readiness probe requests; it fails while the store is unreachable
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "DOWN"})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

// Root answers the service banner
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "API is running"})
}
