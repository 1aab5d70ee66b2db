package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/logging"
)

type healthResponse struct {
	Status string                 `json:"status"`
	Bulk   core.BulkLimiterStatus `json:"bulk"`
}

// handleHealth reports whether the store is reachable and how busy the bulk
// limiter is.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Bulk: s.service.Limiter().Status()}
	status := http.StatusOK

	if err := s.service.Store().Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
