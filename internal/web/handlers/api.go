package handlers

import (
	"net/http"

	"github.com/techforus64-cmd/frontend-sub001/internal/audit"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
)

// APIHandler handles general API endpoints
type APIHandler struct {
	Loader  *directory.Loader
	Tracker *audit.Tracker
	Config  *Config
}

// StatsResponse represents overall system statistics
type StatsResponse struct {
	DirectoryPincodes int             `json:"directory_pincodes"`
	DirectoryZones    int             `json:"directory_zones"`
	Runs              *audit.RunStats `json:"runs,omitempty"`
}

// GetStats handles GET /api/stats
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{}

	if dir, err := h.Loader.Directory(); err == nil {
		stats.DirectoryPincodes = dir.Len()
		stats.DirectoryZones = len(dir.Zones())
	}

	if h.Tracker != nil && h.Config.Features.AuditEnabled {
		if runs, err := h.Tracker.GetRunStats(); err == nil {
			stats.Runs = runs
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// Health handles GET /api/health
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := h.Loader.Directory()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"reason": "master directory unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
