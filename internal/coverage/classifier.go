package coverage

import (
	"math"
	"sort"
)

// Mode identifies which of the four encodings a zone's served set is stored as.
type Mode string

const (
	// FullZone: every master pincode in the zone is served; no payload.
	FullZone Mode = "FULL_ZONE"
	// FullMinusExceptions: majority served; payload lists the unserved remainder.
	FullMinusExceptions Mode = "FULL_MINUS_EXCEPTIONS"
	// OnlyServed: minority served; payload lists the served pincodes.
	OnlyServed Mode = "ONLY_SERVED"
	// NotServed: nothing served in the zone; no payload.
	NotServed Mode = "NOT_SERVED"
)

// DefaultThresholdPercent is the coverage cut above which a zone is stored as
// full-minus-exceptions instead of an explicit served list.
const DefaultThresholdPercent = 50.0

// Result is the classification outcome for one zone. PayloadValues holds the
// uncompressed payload for the chosen mode: exceptions for
// FullMinusExceptions, served pincodes for OnlyServed, empty otherwise.
type Result struct {
	Mode            Mode
	TotalInZone     int
	ServedCount     int
	CoveragePercent float64
	PayloadValues   []int
}

// Classify picks the cheapest exactly-reconstructible encoding for a zone's
// served pincode set relative to the zone's master set. Served pincodes
// outside the zone never inflate coverage: all counts are taken over the
// intersection with zoneMaster. thresholdPercent <= 0 falls back to
// DefaultThresholdPercent.
func Classify(served, zoneMaster []int, thresholdPercent float64) Result {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultThresholdPercent
	}

	if len(zoneMaster) == 0 {
		return Result{Mode: NotServed, PayloadValues: []int{}}
	}

	masterSet := make(map[int]bool, len(zoneMaster))
	for _, p := range zoneMaster {
		masterSet[p] = true
	}

	servedSet := make(map[int]bool, len(served))
	servedInZone := []int{}
	for _, p := range served {
		if servedSet[p] {
			continue
		}
		servedSet[p] = true
		if masterSet[p] {
			servedInZone = append(servedInZone, p)
		}
	}
	sort.Ints(servedInZone)

	// The unserved remainder is computed unconditionally: even a tentative
	// FULL_ZONE must be downgraded if anything in the zone is missing,
	// otherwise the stored document would not reconstruct exactly.
	missing := []int{}
	for _, p := range zoneMaster {
		if !servedSet[p] {
			missing = append(missing, p)
		}
	}

	result := Result{
		TotalInZone:     len(zoneMaster),
		ServedCount:     len(servedInZone),
		CoveragePercent: roundPercent(float64(len(servedInZone)) / float64(len(zoneMaster)) * 100),
	}

	if len(served) == 0 {
		result.Mode = NotServed
		result.PayloadValues = []int{}
		return result
	}

	switch {
	case result.CoveragePercent >= 100.0 && len(missing) == 0:
		result.Mode = FullZone
		result.PayloadValues = []int{}
	case result.CoveragePercent >= 100.0 || result.CoveragePercent > thresholdPercent:
		result.Mode = FullMinusExceptions
		result.PayloadValues = missing
	default:
		result.Mode = OnlyServed
		result.PayloadValues = servedInZone
	}

	return result
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
