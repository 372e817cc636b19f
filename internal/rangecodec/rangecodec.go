package rangecodec

import "sort"

// DefaultThreshold is the minimum run length worth storing as a range.
// Runs of 1 or 2 pincodes are cheaper kept as individual values.
const DefaultThreshold = 3

// Range represents a maximal run of consecutive pincodes, inclusive on both ends.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pincodes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains reports whether the pincode falls inside the range.
func (r Range) Contains(pincode int) bool {
	return pincode >= r.Start && pincode <= r.End
}

// Compress converts a set of pincodes into contiguous ranges plus leftover
// singles. Input is deduplicated and sorted first. A consecutive run is only
// emitted as a Range when it spans at least threshold values; shorter runs
// stay in singles. Threshold values below 1 fall back to DefaultThreshold.
func Compress(values []int, threshold int) ([]Range, []int) {
	if threshold < 1 {
		threshold = DefaultThreshold
	}

	sorted := dedupeSorted(values)
	if len(sorted) == 0 {
		return []Range{}, []int{}
	}

	ranges := []Range{}
	singles := []int{}

	runStart := sorted[0]
	prev := sorted[0]

	flush := func(start, end int) {
		if end-start+1 >= threshold {
			ranges = append(ranges, Range{Start: start, End: end})
			return
		}
		for v := start; v <= end; v++ {
			singles = append(singles, v)
		}
	}

	for _, v := range sorted[1:] {
		if v == prev+1 {
			prev = v
			continue
		}
		flush(runStart, prev)
		runStart = v
		prev = v
	}
	flush(runStart, prev)

	return ranges, singles
}

// Expand reverses Compress: the union of every pincode covered by the ranges
// and every single, deduplicated and sorted ascending.
func Expand(ranges []Range, singles []int) []int {
	var values []int
	for _, r := range ranges {
		for v := r.Start; v <= r.End; v++ {
			values = append(values, v)
		}
	}
	values = append(values, singles...)
	return dedupeSorted(values)
}

// Count returns the total number of pincodes covered by ranges and singles
// without expanding them. Assumes ranges and singles do not overlap, which
// holds for any Compress output.
func Count(ranges []Range, singles []int) int {
	total := len(singles)
	for _, r := range ranges {
		total += r.Len()
	}
	return total
}

// dedupeSorted returns a sorted copy of values with duplicates removed.
func dedupeSorted(values []int) []int {
	if len(values) == 0 {
		return []int{}
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
