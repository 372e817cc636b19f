package utsf

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/techforus64-cmd/frontend-sub001/internal/compliance"
	"github.com/techforus64-cmd/frontend-sub001/internal/coverage"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/rangecodec"
	"github.com/techforus64-cmd/frontend-sub001/internal/reconcile"
)

// EncodeRequest is everything the collaborator layer supplies for one
// vendor: identity, the pricing document passed through untouched, and the
// raw, unreconciled serviceability claims (or zone-only codes).
type EncodeRequest struct {
	VendorID      string            `json:"vendor_id"`
	VendorName    string            `json:"vendor_name"`
	Pricing       json.RawMessage   `json:"pricing,omitempty"`
	Claims        []reconcile.Claim `json:"claims,omitempty"`
	ZoneOnlyCodes []string          `json:"zone_only_codes,omitempty"`

	// Zero values fall back to the package defaults.
	RangeThreshold           int     `json:"range_threshold,omitempty"`
	CoverageThresholdPercent float64 `json:"coverage_threshold_percent,omitempty"`
}

// EncodeResult pairs the assembled document with the recoverable warnings
// collected along the way. Warnings never abort an encode; the document is
// always returned once reconciliation has run.
type EncodeResult struct {
	Document           *Document           `json:"document"`
	ReconcileWarnings  []reconcile.Warning `json:"reconcile_warnings,omitempty"`
	ValidationWarnings []string            `json:"validation_warnings,omitempty"`
}

// Encode runs the full pipeline: reconcile the claims against the master
// directory, classify every known zone (so NOT_SERVED zones are explicit and
// queryable, never just omitted), build the ODA coverage from the isODA
// subset, compute stats, and assemble the immutable versioned document.
func Encode(req EncodeRequest, dir *directory.Directory) (*EncodeResult, error) {
	if dir == nil || dir.Len() == 0 {
		return nil, directory.ErrEmptyDirectory
	}

	rangeThreshold := req.RangeThreshold
	if rangeThreshold < 1 {
		rangeThreshold = rangecodec.DefaultThreshold
	}
	coverageThreshold := req.CoverageThresholdPercent
	if coverageThreshold <= 0 {
		coverageThreshold = coverage.DefaultThresholdPercent
	}

	rec := reconcile.Reconcile(req.Claims, req.ZoneOnlyCodes, dir)

	zones := documentZones(dir, rec)

	serviceability := make(map[string]ZoneCoverage, len(zones))
	oda := make(map[string]ZoneCoverage, len(zones))
	for _, zone := range zones {
		master := dir.ZonePincodes(zone)
		serviceability[zone] = buildCoverage(rec.ServedByZone[zone], master, coverageThreshold, rangeThreshold)
		oda[zone] = buildCoverage(rec.ODAByZone[zone], master, coverageThreshold, rangeThreshold)
	}

	doc := &Document{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Meta: Meta{
			DocumentID:     uuid.NewString(),
			VendorID:       req.VendorID,
			VendorName:     req.VendorName,
			ZoneOnlyClaims: rec.ZoneOnly,
		},
		Pricing:        req.Pricing,
		Serviceability: serviceability,
		ODA:            oda,
		Updates:        []AuditEntry{},
	}

	if len(rec.Overrides) > 0 {
		doc.ZoneOverrides = rec.Overrides
	}
	if len(rec.Discrepancies) > 0 {
		doc.ZoneDiscrepancies = &ZoneDiscrepancies{
			TotalMismatched: rec.TotalMismatched,
			Remaps:          rec.Discrepancies,
		}
	}

	doc.Stats = buildStats(req, doc, rec, dir)

	result := &EncodeResult{
		Document:          doc,
		ReconcileWarnings: rec.Warnings,
	}

	// Validation findings are warnings, never failures: a partially
	// inconsistent document still reaches the caller.
	if v := Validate(doc); !v.IsValid {
		result.ValidationWarnings = v.Errors
	}

	return result, nil
}

// documentZones returns every zone the document must mention: the full
// directory enumeration plus any claimed zones that only exist as fallback
// filings for unresolvable pincodes.
func documentZones(dir *directory.Directory, rec reconcile.Result) []string {
	zones := append([]string{}, dir.Zones()...)

	known := make(map[string]bool, len(zones))
	for _, z := range zones {
		known[z] = true
	}
	for zone := range rec.ServedByZone {
		if !known[zone] {
			zones = append(zones, zone)
		}
	}
	sort.Strings(zones)
	return zones
}

func buildCoverage(served, master []int, coverageThreshold float64, rangeThreshold int) ZoneCoverage {
	result := coverage.Classify(served, master, coverageThreshold)

	zc := ZoneCoverage{
		Mode:            result.Mode,
		TotalInZone:     result.TotalInZone,
		ServedCount:     result.ServedCount,
		CoveragePercent: result.CoveragePercent,
	}

	switch result.Mode {
	case coverage.FullMinusExceptions:
		zc.ExceptRanges, zc.ExceptSingles = rangecodec.Compress(result.PayloadValues, rangeThreshold)
	case coverage.OnlyServed:
		zc.ServedRanges, zc.ServedSingles = rangecodec.Compress(result.PayloadValues, rangeThreshold)
	}

	return zc
}

func buildStats(req EncodeRequest, doc *Document, rec reconcile.Result, dir *directory.Directory) Stats {
	stats := Stats{
		RegionRollups:      make(map[string]RegionStats),
		ComplianceScore:    compliance.Score(rec.ServedByZone, dir),
		TotalMismatched:    rec.TotalMismatched,
		UnresolvableClaims: len(rec.Warnings),
		DataCompleteness:   completeness(req),
	}

	coveredPercentSum := 0.0
	for zone, zc := range doc.Serviceability {
		region := RegionOf(zone)
		rollup := stats.RegionRollups[region]
		rollup.Zones++

		stats.TotalServedPincodes += zc.ServedCount
		if zc.ServedCount > 0 {
			stats.TotalZonesCovered++
			coveredPercentSum += zc.CoveragePercent
			rollup.ZonesCovered++
			rollup.ServedPincodes += zc.ServedCount
		}
		stats.RegionRollups[region] = rollup
	}

	odaSeen := make(map[int]bool)
	for _, pincodes := range rec.ODAByZone {
		for _, p := range pincodes {
			odaSeen[p] = true
		}
	}
	stats.TotalODAPincodes = len(odaSeen)

	if stats.TotalZonesCovered > 0 {
		stats.AverageCoveragePercent = round2(coveredPercentSum / float64(stats.TotalZonesCovered))
	}

	return stats
}

// completeness scores how much of the expected top-level input was actually
// supplied: vendor id, vendor name, pricing, and any serviceability data.
func completeness(req EncodeRequest) float64 {
	present := 0
	if req.VendorID != "" {
		present++
	}
	if req.VendorName != "" {
		present++
	}
	if len(req.Pricing) > 0 {
		present++
	}
	if len(req.Claims) > 0 || len(req.ZoneOnlyCodes) > 0 {
		present++
	}
	return round2(float64(present) / 4.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
