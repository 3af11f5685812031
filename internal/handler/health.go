package handler

import (
	"context"
	"net/http"
	"time"
)

type healthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{
		Status:    "OK",
		Database:  "connected",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logInternalServerError(r, err)
		status.Status = "ERROR"
		status.Database = "disconnected"
		h.writeJSON(w, r, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "database unavailable",
			Data:    status,
		})
		return
	}

	h.successResponse(w, r, http.StatusOK, "healthy", status)
}
