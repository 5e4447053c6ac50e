package handlers

import (
	"context"
	"net/http"
	"time"
)

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.HealthCheck(ctx); err != nil {
		h.Log.WithError(err).Error("health check failed")
		WriteError(w, "Database unavailable", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
