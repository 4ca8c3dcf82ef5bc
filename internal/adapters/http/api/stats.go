package api

import "net/http"

// StatsProvider reports catalog and runtime counters of the recommender,
// such as postings, distinct roles and vocabulary size.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats StatsProvider
}

func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats writes a snapshot that includes uptime, so it is marked no-store.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
