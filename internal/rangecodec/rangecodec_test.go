package rangecodec

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestCompress(t *testing.T) {
	tests := []struct {
		name        string
		input       []int
		threshold   int
		wantRanges  []Range
		wantSingles []int
	}{
		{
			name:        "empty input",
			input:       []int{},
			threshold:   3,
			wantRanges:  []Range{},
			wantSingles: []int{},
		},
		{
			name:        "run below threshold stays singles",
			input:       []int{5, 6},
			threshold:   3,
			wantRanges:  []Range{},
			wantSingles: []int{5, 6},
		},
		{
			name:        "run at threshold becomes range",
			input:       []int{5, 6, 7},
			threshold:   3,
			wantRanges:  []Range{{Start: 5, End: 7}},
			wantSingles: []int{},
		},
		{
			name:        "mixed runs and singles",
			input:       []int{110001, 110002, 110003, 110007, 110010, 110011, 110012, 110013},
			threshold:   3,
			wantRanges:  []Range{{Start: 110001, End: 110003}, {Start: 110010, End: 110013}},
			wantSingles: []int{110007},
		},
		{
			name:        "unsorted input with duplicates",
			input:       []int{9, 7, 8, 8, 1, 9},
			threshold:   3,
			wantRanges:  []Range{{Start: 7, End: 9}},
			wantSingles: []int{1},
		},
		{
			name:        "higher threshold demotes short run",
			input:       []int{5, 6, 7},
			threshold:   4,
			wantRanges:  []Range{},
			wantSingles: []int{5, 6, 7},
		},
		{
			name:        "single value",
			input:       []int{400001},
			threshold:   3,
			wantRanges:  []Range{},
			wantSingles: []int{400001},
		},
		{
			name:        "zero threshold falls back to default",
			input:       []int{1, 2, 3},
			threshold:   0,
			wantRanges:  []Range{{Start: 1, End: 3}},
			wantSingles: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, singles := Compress(tt.input, tt.threshold)

			if !reflect.DeepEqual(ranges, tt.wantRanges) {
				t.Errorf("Compress() ranges = %v, want %v", ranges, tt.wantRanges)
			}
			if !reflect.DeepEqual(singles, tt.wantSingles) {
				t.Errorf("Compress() singles = %v, want %v", singles, tt.wantSingles)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name    string
		ranges  []Range
		singles []int
		want    []int
	}{
		{
			name:    "empty payload",
			ranges:  []Range{},
			singles: []int{},
			want:    []int{},
		},
		{
			name:    "ranges and singles combined",
			ranges:  []Range{{Start: 10, End: 12}},
			singles: []int{5, 20},
			want:    []int{5, 10, 11, 12, 20},
		},
		{
			name:    "overlapping payload deduplicates",
			ranges:  []Range{{Start: 1, End: 3}, {Start: 2, End: 5}},
			singles: []int{3},
			want:    []int{1, 2, 3, 4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.ranges, tt.singles)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	ranges := []Range{{Start: 110001, End: 110005}, {Start: 110010, End: 110012}}
	singles := []int{110020, 110025}

	if got := Count(ranges, singles); got != 10 {
		t.Errorf("Count() = %d, want 10", got)
	}
}

// TestRoundTripRandom verifies expand(compress(S)) == sort(unique(S)) over
// randomized inputs across several thresholds.
func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(200)
		values := make([]int, n)
		for j := range values {
			values[j] = 100000 + rng.Intn(300)
		}
		threshold := 1 + rng.Intn(6)

		want := sortUnique(values)
		ranges, singles := Compress(values, threshold)
		got := Expand(ranges, singles)

		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip failed for %v (threshold %d): got %v, want %v",
				values, threshold, got, want)
		}
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{1, 2, 3, 7, 9}, 3)
	f.Add([]byte{}, 3)
	f.Add([]byte{255, 0, 255, 1}, 1)

	f.Fuzz(func(t *testing.T, raw []byte, threshold int) {
		values := make([]int, len(raw))
		for i, b := range raw {
			values[i] = int(b)
		}

		want := sortUnique(values)
		ranges, singles := Compress(values, threshold)
		got := Expand(ranges, singles)

		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip failed for %v (threshold %d): got %v, want %v",
				values, threshold, got, want)
		}

		for _, s := range singles {
			for _, r := range ranges {
				if r.Contains(s) {
					t.Errorf("single %d overlaps range %v", s, r)
				}
			}
		}
	})
}

func sortUnique(values []int) []int {
	if len(values) == 0 {
		return []int{}
	}
	seen := make(map[int]bool)
	var out []int
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
