package utsf

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/techforus64-cmd/frontend-sub001/internal/coverage"
	"github.com/techforus64-cmd/frontend-sub001/internal/rangecodec"
	"github.com/techforus64-cmd/frontend-sub001/internal/reconcile"
)

// Version is the UTSF document format version stamped on every encode.
const Version = "3.0"

// Document is the complete encoded serviceability snapshot for one vendor.
// It is created fresh on every encode call and never mutated afterwards;
// later edits are appended to Updates by the governance layer.
type Document struct {
	Version           string                  `json:"version"`
	GeneratedAt       time.Time               `json:"generated_at"`
	Meta              Meta                    `json:"meta"`
	Pricing           json.RawMessage         `json:"pricing,omitempty"`
	Serviceability    map[string]ZoneCoverage `json:"serviceability"`
	ODA               map[string]ZoneCoverage `json:"oda"`
	Stats             Stats                   `json:"stats"`
	ZoneOverrides     map[int]string          `json:"zone_overrides,omitempty"`
	ZoneDiscrepancies *ZoneDiscrepancies      `json:"zone_discrepancies,omitempty"`
	Updates           []AuditEntry            `json:"updates"`
}

// Meta identifies the vendor and how the document was produced.
type Meta struct {
	DocumentID     string `json:"document_id"`
	VendorID       string `json:"vendor_id"`
	VendorName     string `json:"vendor_name"`
	ZoneOnlyClaims bool   `json:"zone_only_claims"`
}

// ZoneCoverage is the stored encoding for one zone. Which payload fields are
// populated depends on Mode: exceptions for FULL_MINUS_EXCEPTIONS, served
// values for ONLY_SERVED, neither for FULL_ZONE and NOT_SERVED.
type ZoneCoverage struct {
	Mode            coverage.Mode      `json:"mode"`
	TotalInZone     int                `json:"total_in_zone"`
	ServedCount     int                `json:"served_count"`
	CoveragePercent float64            `json:"coverage_percent"`
	ExceptRanges    []rangecodec.Range `json:"except_ranges,omitempty"`
	ExceptSingles   []int              `json:"except_singles,omitempty"`
	ServedRanges    []rangecodec.Range `json:"served_ranges,omitempty"`
	ServedSingles   []int              `json:"served_singles,omitempty"`
}

// ZoneDiscrepancies aggregates every vendor-vs-master zone disagreement.
type ZoneDiscrepancies struct {
	TotalMismatched int                     `json:"total_mismatched"`
	Remaps          []reconcile.Discrepancy `json:"remaps"`
}

// AuditEntry is one append-only edit record in a document's update log.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Editor    string    `json:"editor"`
	Reason    string    `json:"reason"`
	Summary   string    `json:"summary"`
}

// RegionStats is the per-region rollup inside Stats.
type RegionStats struct {
	Zones          int `json:"zones"`
	ZonesCovered   int `json:"zones_covered"`
	ServedPincodes int `json:"served_pincodes"`
}

// Stats carries the descriptive numbers computed over the whole document.
type Stats struct {
	TotalServedPincodes    int                    `json:"total_served_pincodes"`
	TotalZonesCovered      int                    `json:"total_zones_covered"`
	TotalODAPincodes       int                    `json:"total_oda_pincodes"`
	RegionRollups          map[string]RegionStats `json:"region_rollups"`
	AverageCoveragePercent float64                `json:"average_coverage_percent"`
	DataCompleteness       float64                `json:"data_completeness"`
	ComplianceScore        float64                `json:"compliance_score"`
	TotalMismatched        int                    `json:"total_mismatched"`
	UnresolvableClaims     int                    `json:"unresolvable_claims"`
}

// RegionOf maps a zone code to its fixed region bucket. Two-letter prefixes
// are checked before single letters so NE1 does not read as north.
func RegionOf(zone string) string {
	upper := strings.ToUpper(zone)
	if strings.HasPrefix(upper, "NE") {
		return "northeast"
	}
	switch {
	case strings.HasPrefix(upper, "N"):
		return "north"
	case strings.HasPrefix(upper, "S"):
		return "south"
	case strings.HasPrefix(upper, "E"):
		return "east"
	case strings.HasPrefix(upper, "W"):
		return "west"
	case strings.HasPrefix(upper, "C"):
		return "central"
	}
	return "other"
}
