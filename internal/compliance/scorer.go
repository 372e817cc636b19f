package compliance

import (
	"math"

	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
)

// Score measures how faithfully a vendor's claimed coverage matches the
// master directory, as a strict set difference over every zone the vendor
// touched. Zones the vendor never claimed contribute nothing; partial
// coverage inside a claimed zone always counts against the score. This
// rewards honest narrow claims over sloppy broad ones.
//
// Returns round(1 - forcedExceptions/totalConsidered, 4), or 1.0 when no
// master pincodes were considered at all (vacuous pass).
func Score(servedByZone map[string][]int, dir *directory.Directory) float64 {
	totalConsidered := 0
	forcedExceptions := 0

	for zone, served := range servedByZone {
		master := dir.ZonePincodes(zone)
		if len(master) == 0 {
			continue
		}
		totalConsidered += len(master)

		servedSet := make(map[int]bool, len(served))
		for _, p := range served {
			servedSet[p] = true
		}
		for _, p := range master {
			if !servedSet[p] {
				forcedExceptions++
			}
		}
	}

	if totalConsidered == 0 {
		return 1.0
	}
	return round4(1.0 - float64(forcedExceptions)/float64(totalConsidered))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
