package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/rangecodec"
	"github.com/techforus64-cmd/frontend-sub001/internal/utsf"
)

// ZonesHandler exposes the master directory's zone enumeration to the
// onboarding UI's zone and pincode pickers.
type ZonesHandler struct {
	Loader *directory.Loader
	Config *Config
}

// ZoneSummary describes one zone for picker listings
type ZoneSummary struct {
	Zone     string `json:"zone"`
	Region   string `json:"region"`
	Pincodes int    `json:"pincodes"`
}

// ZoneDetail carries a zone's full master pincode set in compressed form
type ZoneDetail struct {
	Zone    string             `json:"zone"`
	Region  string             `json:"region"`
	Total   int                `json:"total"`
	Ranges  []rangecodec.Range `json:"ranges"`
	Singles []int              `json:"singles"`
}

// ListZones handles GET /api/zones
func (h *ZonesHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	dir, err := h.Loader.Directory()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "master directory unavailable")
		return
	}

	summaries := []ZoneSummary{}
	for _, zone := range dir.Zones() {
		summaries = append(summaries, ZoneSummary{
			Zone:     zone,
			Region:   utsf.RegionOf(zone),
			Pincodes: len(dir.ZonePincodes(zone)),
		})
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GetZone handles GET /api/zones/{zone}
func (h *ZonesHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	zone := mux.Vars(r)["zone"]

	dir, err := h.Loader.Directory()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "master directory unavailable")
		return
	}

	master := dir.ZonePincodes(zone)
	if len(master) == 0 {
		writeError(w, http.StatusNotFound, "unknown zone")
		return
	}

	ranges, singles := rangecodec.Compress(master, rangecodec.DefaultThreshold)
	writeJSON(w, http.StatusOK, ZoneDetail{
		Zone:    zone,
		Region:  utsf.RegionOf(zone),
		Total:   len(master),
		Ranges:  ranges,
		Singles: singles,
	})
}
