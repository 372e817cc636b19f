// Package checksum produces an order-independent digest of a serviceability
// array so callers can detect "has this vendor's coverage changed" without
// re-encoding the whole document. The digest is stable across input
// orderings and not cryptographically secure.
package checksum

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
)

// Entry is the minimal slice of a serviceability claim that participates in
// the digest.
type Entry struct {
	Pincode int    `json:"pincode"`
	Zone    string `json:"zone"`
	IsODA   bool   `json:"is_oda"`
}

// Checksum canonicalizes the entries (sorted by pincode, then zone, then ODA
// flag) and hashes the "pincode:zone:isODA" lines with FNV-1a. Identical
// multisets of entries always produce the identical fixed-width hex string.
func Checksum(entries []Entry) string {
	canonical := make([]Entry, len(entries))
	copy(canonical, entries)

	sort.Slice(canonical, func(i, j int) bool {
		if canonical[i].Pincode != canonical[j].Pincode {
			return canonical[i].Pincode < canonical[j].Pincode
		}
		if canonical[i].Zone != canonical[j].Zone {
			return canonical[i].Zone < canonical[j].Zone
		}
		return !canonical[i].IsODA && canonical[j].IsODA
	})

	h := fnv.New32a()
	for _, e := range canonical {
		h.Write([]byte(strconv.Itoa(e.Pincode)))
		h.Write([]byte{':'})
		h.Write([]byte(e.Zone))
		h.Write([]byte{':'})
		h.Write([]byte(strconv.FormatBool(e.IsODA)))
		h.Write([]byte{'\n'})
	}

	return fmt.Sprintf("%08x", h.Sum32())
}
