package reconcile

import (
	"sort"

	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/rangecodec"
)

// Claim is one raw serviceability row from the vendor-facing UI. The claimed
// zone is the vendor's own labeling and is never trusted for filing; the
// master directory decides where a pincode belongs.
type Claim struct {
	Pincode     int    `json:"pincode"`
	ClaimedZone string `json:"claimed_zone,omitempty"`
	IsODA       bool   `json:"is_oda"`
	Active      bool   `json:"active"`
}

// Discrepancy aggregates the pincodes where the vendor's claimed zone
// disagrees with the master zone, bucketed by the (claimed, master) pair.
type Discrepancy struct {
	ClaimedZone string             `json:"claimed_zone"`
	MasterZone  string             `json:"master_zone"`
	Count       int                `json:"count"`
	Ranges      []rangecodec.Range `json:"ranges"`
	Singles     []int              `json:"singles"`
}

// Warning reports a claim that could not be filed anywhere: its pincode is
// absent from the directory and it carries no claimed zone. One bad row must
// not abort the encode, so these surface alongside the result.
type Warning struct {
	Pincode int    `json:"pincode"`
	Reason  string `json:"reason"`
}

// Result is the reconciled view of a vendor's claims against the master
// directory. ServedByZone and ODAByZone are keyed by filing zone and hold
// sorted unique pincodes.
type Result struct {
	ServedByZone    map[string][]int
	ODAByZone       map[string][]int
	Overrides       map[int]string
	Discrepancies   []Discrepancy
	TotalMismatched int
	Warnings        []Warning
	ZoneOnly        bool
}

// Reconcile walks raw claims and resolves each pincode against the master
// directory. The filing zone is always the master zone when the pincode is
// known; the claimed zone is only a fallback for pincodes the directory has
// never heard of. Vendor/master zone disagreements are recorded as overrides
// and aggregated into discrepancy buckets.
//
// When zoneOnlyCodes is non-empty it takes precedence over claims: each code
// is interpreted as "every master pincode in this zone is served", the
// shortcut used by UIs without pincode granularity.
func Reconcile(claims []Claim, zoneOnlyCodes []string, dir *directory.Directory) Result {
	if len(zoneOnlyCodes) > 0 {
		return reconcileZoneOnly(zoneOnlyCodes, dir)
	}

	result := Result{
		ServedByZone: make(map[string][]int),
		ODAByZone:    make(map[string][]int),
		Overrides:    make(map[int]string),
	}

	servedSets := make(map[string]map[int]bool)
	odaSets := make(map[string]map[int]bool)
	buckets := make(map[[2]string]map[int]bool)

	for _, claim := range claims {
		if !claim.Active {
			continue
		}

		masterZone, known := dir.ZoneOf(claim.Pincode)

		filingZone := masterZone
		if !known {
			if claim.ClaimedZone == "" {
				result.Warnings = append(result.Warnings, Warning{
					Pincode: claim.Pincode,
					Reason:  "pincode not in master directory and no claimed zone to file under",
				})
				continue
			}
			filingZone = claim.ClaimedZone
		}

		addToSet(servedSets, filingZone, claim.Pincode)
		if claim.IsODA {
			addToSet(odaSets, filingZone, claim.Pincode)
		}

		if known && claim.ClaimedZone != "" && claim.ClaimedZone != masterZone {
			result.Overrides[claim.Pincode] = claim.ClaimedZone

			key := [2]string{claim.ClaimedZone, masterZone}
			if buckets[key] == nil {
				buckets[key] = make(map[int]bool)
			}
			buckets[key][claim.Pincode] = true
		}
	}

	result.ServedByZone = collapseSets(servedSets)
	result.ODAByZone = collapseSets(odaSets)
	result.Discrepancies, result.TotalMismatched = finalizeBuckets(buckets)

	return result
}

func reconcileZoneOnly(codes []string, dir *directory.Directory) Result {
	result := Result{
		ServedByZone: make(map[string][]int),
		ODAByZone:    make(map[string][]int),
		Overrides:    make(map[int]string),
		ZoneOnly:     true,
	}

	seen := make(map[string]bool)
	for _, zone := range codes {
		if zone == "" || seen[zone] {
			continue
		}
		seen[zone] = true

		master := dir.ZonePincodes(zone)
		served := make([]int, len(master))
		copy(served, master)
		result.ServedByZone[zone] = served

		if len(master) == 0 {
			result.Warnings = append(result.Warnings, Warning{
				Reason: "claimed zone " + zone + " has no pincodes in the master directory",
			})
		}
	}

	return result
}

// finalizeBuckets compresses each discrepancy bucket and orders buckets by
// descending count, with the zone pair as a stable tie-break.
func finalizeBuckets(buckets map[[2]string]map[int]bool) ([]Discrepancy, int) {
	discrepancies := []Discrepancy{}
	total := 0

	for key, pincodes := range buckets {
		values := make([]int, 0, len(pincodes))
		for p := range pincodes {
			values = append(values, p)
		}
		ranges, singles := rangecodec.Compress(values, rangecodec.DefaultThreshold)

		discrepancies = append(discrepancies, Discrepancy{
			ClaimedZone: key[0],
			MasterZone:  key[1],
			Count:       len(pincodes),
			Ranges:      ranges,
			Singles:     singles,
		})
		total += len(pincodes)
	}

	sort.Slice(discrepancies, func(i, j int) bool {
		if discrepancies[i].Count != discrepancies[j].Count {
			return discrepancies[i].Count > discrepancies[j].Count
		}
		if discrepancies[i].ClaimedZone != discrepancies[j].ClaimedZone {
			return discrepancies[i].ClaimedZone < discrepancies[j].ClaimedZone
		}
		return discrepancies[i].MasterZone < discrepancies[j].MasterZone
	})

	return discrepancies, total
}

func addToSet(sets map[string]map[int]bool, zone string, pincode int) {
	if sets[zone] == nil {
		sets[zone] = make(map[int]bool)
	}
	sets[zone][pincode] = true
}

func collapseSets(sets map[string]map[int]bool) map[string][]int {
	out := make(map[string][]int, len(sets))
	for zone, set := range sets {
		values := make([]int, 0, len(set))
		for p := range set {
			values = append(values, p)
		}
		sort.Ints(values)
		out[zone] = values
	}
	return out
}
