package handler

import (
	"context"
	"net/http"
	"time"

	"embedq/internal/dispatch"
)

type HealthHandler struct {
	Backend dispatch.Backend
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// When the broker backend is active, re-probe it so a Redis outage
	// shows up as degraded rather than silently queueing into the void.
	if rb, ok := h.Backend.(*dispatch.Redis); ok {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := rb.Ping(ctx); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"message": "backend: " + h.Backend.Kind(),
		"queues":  map[string]string{"embedding_queue": h.Backend.Kind()},
	})
}
