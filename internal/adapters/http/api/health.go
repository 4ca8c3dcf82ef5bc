package api

import (
	"net/http"

	"github.com/okian/rolematch/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness metrics and readiness.
type HealthHandler struct {
	metrics http.Handler
	ready   ReadyDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadyDependencies) *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
		ready:   ready,
	}
}

// HandleHealth handles GET /healthz requests by serving the Prometheus
// exposition of the service registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HandleReady handles GET /readyz: 200 once the catalog is loaded, 503 before.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	checks, err := h.ready.Ready(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "not_ready", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ready", Checks: checks})
}
