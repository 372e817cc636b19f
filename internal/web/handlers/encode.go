package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/techforus64-cmd/frontend-sub001/internal/audit"
	"github.com/techforus64-cmd/frontend-sub001/internal/checksum"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/importer"
	"github.com/techforus64-cmd/frontend-sub001/internal/metrics"
	"github.com/techforus64-cmd/frontend-sub001/internal/reconcile"
	"github.com/techforus64-cmd/frontend-sub001/internal/utsf"
)

// EncodeHandler runs the serviceability encoder for vendor onboarding
type EncodeHandler struct {
	Loader  *directory.Loader
	Tracker *audit.Tracker
	Config  *Config
}

// encodeRequestBody is the wire shape the onboarding UI posts. Claims stay
// raw so the boundary adapter can reconcile loose field names before the
// core ever sees them.
type encodeRequestBody struct {
	VendorID      string          `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	Pricing       json.RawMessage `json:"pricing,omitempty"`
	Claims        json.RawMessage `json:"claims,omitempty"`
	ZoneOnlyCodes []string        `json:"zone_only_codes,omitempty"`

	RangeThreshold           int     `json:"range_threshold,omitempty"`
	CoverageThresholdPercent float64 `json:"coverage_threshold_percent,omitempty"`
}

type encodeResponse struct {
	Document           *utsf.Document      `json:"document"`
	ReconcileWarnings  []reconcile.Warning `json:"reconcile_warnings,omitempty"`
	ValidationWarnings []string            `json:"validation_warnings,omitempty"`
	DroppedClaims      int                 `json:"dropped_claims,omitempty"`
	Checksum           string              `json:"checksum"`
	Changed            bool                `json:"changed"`
}

// Encode handles POST /api/encode
func (h *EncodeHandler) Encode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body encodeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.VendorID == "" {
		writeError(w, http.StatusBadRequest, "vendor_id is required")
		return
	}

	var claims []reconcile.Claim
	dropped := 0
	if len(body.Claims) > 0 {
		var err error
		claims, dropped, err = importer.ParseClaimsJSON(bytes.NewReader(body.Claims))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid claims array")
			return
		}
	}

	dir, err := h.Loader.Directory()
	if err != nil {
		metrics.EncodesTotal.WithLabelValues("directory_unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, "master directory unavailable")
		return
	}

	result, err := utsf.Encode(utsf.EncodeRequest{
		VendorID:                 body.VendorID,
		VendorName:               body.VendorName,
		Pricing:                  body.Pricing,
		Claims:                   claims,
		ZoneOnlyCodes:            body.ZoneOnlyCodes,
		RangeThreshold:           body.RangeThreshold,
		CoverageThresholdPercent: body.CoverageThresholdPercent,
	}, dir)
	if err != nil {
		if errors.Is(err, directory.ErrEmptyDirectory) {
			metrics.EncodesTotal.WithLabelValues("directory_unavailable").Inc()
			writeError(w, http.StatusServiceUnavailable, "master directory is empty")
			return
		}
		metrics.EncodesTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}

	sum := checksum.Checksum(checksumEntries(claims))

	response := encodeResponse{
		Document:           result.Document,
		ReconcileWarnings:  result.ReconcileWarnings,
		ValidationWarnings: result.ValidationWarnings,
		DroppedClaims:      dropped,
		Checksum:           sum,
	}

	if h.Tracker != nil && h.Config.Features.AuditEnabled {
		previous, err := h.Tracker.LatestChecksum(body.VendorID)
		if err == nil {
			response.Changed = previous != sum
		}

		run := audit.EncodeRun{
			RunID:        uuid.NewString(),
			VendorID:     body.VendorID,
			DocumentID:   result.Document.Meta.DocumentID,
			ClaimCount:   len(claims),
			WarningCount: len(result.ReconcileWarnings) + len(result.ValidationWarnings),
			Checksum:     sum,
			Changed:      response.Changed,
			Duration:     time.Since(start),
			CreatedAt:    time.Now().UTC(),
		}
		if err := h.Tracker.RecordRun(false, result.Document, run); err != nil {
			// Persistence trouble must not cost the caller their document.
			response.ValidationWarnings = append(response.ValidationWarnings,
				"audit trail write failed: "+err.Error())
		}
	}

	metrics.EncodesTotal.WithLabelValues("ok").Inc()
	metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	if n := len(result.ReconcileWarnings); n > 0 {
		metrics.EncodeWarningsTotal.WithLabelValues("unresolvable_claim").Add(float64(n))
	}
	if n := len(result.ValidationWarnings); n > 0 {
		metrics.EncodeWarningsTotal.WithLabelValues("validation").Add(float64(n))
	}

	writeJSON(w, http.StatusOK, response)
}

// Checksum handles POST /api/checksum: the digest of a raw claims array
// without running an encode, for cheap change detection.
func (h *EncodeHandler) Checksum(w http.ResponseWriter, r *http.Request) {
	claims, dropped, err := importer.ParseClaimsJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claims array")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checksum":       checksum.Checksum(checksumEntries(claims)),
		"entry_count":    len(claims),
		"dropped_claims": dropped,
	})
}

// RefreshDirectory handles POST /api/directory/refresh
func (h *EncodeHandler) RefreshDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := h.Loader.Refresh()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "directory refresh failed")
		return
	}
	metrics.DirectoryLoadsTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pincodes": dir.Len(),
		"zones":    len(dir.Zones()),
	})
}

func checksumEntries(claims []reconcile.Claim) []checksum.Entry {
	entries := make([]checksum.Entry, len(claims))
	for i, c := range claims {
		entries[i] = checksum.Entry{
			Pincode: c.Pincode,
			Zone:    c.ClaimedZone,
			IsODA:   c.IsODA,
		}
	}
	return entries
}
