// internal/httpapi/health.go
//
// Probe endpoints.  Liveness is unconditional; readiness (and startup,
// which shares the handler) pings the database pool and the cache tier
// and reports each dependency as a boolean so operators see which leg
// is down.
package httpapi

import (
	"context"
	"net/http"
	"time"
)

const probeTimeout = 2 * time.Second

type healthBody struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Cache    bool   `json:"cache"`
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	body := healthBody{
		Status:   "ok",
		Database: s.DB.PingContext(ctx) == nil,
		Cache:    s.Store.Ping(ctx) == nil,
	}

	status := http.StatusOK
	if !body.Database || !body.Cache {
		body.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, body)
}
