package checksum

import (
	"strings"
	"testing"
)

func TestChecksumOrderIndependent(t *testing.T) {
	forward := []Entry{
		{Pincode: 1, Zone: "N1", IsODA: false},
		{Pincode: 2, Zone: "N1", IsODA: true},
	}
	reversed := []Entry{
		{Pincode: 2, Zone: "N1", IsODA: true},
		{Pincode: 1, Zone: "N1", IsODA: false},
	}

	if Checksum(forward) != Checksum(reversed) {
		t.Errorf("checksum differs by input order: %s vs %s",
			Checksum(forward), Checksum(reversed))
	}
}

func TestChecksumFieldSensitivity(t *testing.T) {
	base := []Entry{
		{Pincode: 1, Zone: "N1", IsODA: false},
		{Pincode: 2, Zone: "N1", IsODA: true},
	}
	baseSum := Checksum(base)

	tests := []struct {
		name    string
		entries []Entry
	}{
		{
			name: "oda flag flipped",
			entries: []Entry{
				{Pincode: 1, Zone: "N1", IsODA: false},
				{Pincode: 2, Zone: "N1", IsODA: false},
			},
		},
		{
			name: "zone changed",
			entries: []Entry{
				{Pincode: 1, Zone: "N1", IsODA: false},
				{Pincode: 2, Zone: "N2", IsODA: true},
			},
		},
		{
			name: "pincode changed",
			entries: []Entry{
				{Pincode: 1, Zone: "N1", IsODA: false},
				{Pincode: 3, Zone: "N1", IsODA: true},
			},
		},
		{
			name: "entry removed",
			entries: []Entry{
				{Pincode: 1, Zone: "N1", IsODA: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Checksum(tt.entries) == baseSum {
				t.Errorf("checksum unchanged after %s", tt.name)
			}
		})
	}
}

func TestChecksumFixedWidth(t *testing.T) {
	sums := []string{
		Checksum(nil),
		Checksum([]Entry{}),
		Checksum([]Entry{{Pincode: 110001, Zone: "N1"}}),
	}

	for _, sum := range sums {
		if len(sum) != 8 {
			t.Errorf("checksum %q length = %d, want 8", sum, len(sum))
		}
		if strings.ToLower(sum) != sum {
			t.Errorf("checksum %q is not lowercase hex", sum)
		}
	}

	if Checksum(nil) != Checksum([]Entry{}) {
		t.Error("nil and empty slices produced different checksums")
	}
}

func TestChecksumDoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		{Pincode: 5, Zone: "S1"},
		{Pincode: 1, Zone: "N1"},
	}
	Checksum(entries)

	if entries[0].Pincode != 5 {
		t.Error("input slice reordered by Checksum")
	}
}
