package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/techforus64-cmd/frontend-sub001/internal/reconcile"
)

func TestNormalizePincode(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"110001", 110001, false},
		{" 400001 ", 400001, false},
		{`"600001"`, 600001, false},
		{"110001.0", 110001, false},
		{"110001.5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizePincode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePincode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizePincode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadDirectoryCSV(t *testing.T) {
	csvData := `pincode,zone,state,city
110001,N1,Delhi,New Delhi
400001,W1,Maharashtra,Mumbai
bogus,N1,Delhi,New Delhi
600001,S2,Tamil Nadu,Chennai
`
	path := filepath.Join(t.TempDir(), "master.csv")
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := LoadDirectoryCSV(false, path)
	if err != nil {
		t.Fatalf("LoadDirectoryCSV() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (bad row skipped)", len(records))
	}
	if records[0].Pincode != 110001 || records[0].Zone != "N1" {
		t.Errorf("first record = %+v", records[0])
	}
}

func TestParseDirectoryJSON(t *testing.T) {
	// Pincode arrives as string in one row and as a number in the other.
	payload := `[
		{"pincode": "110001", "zone": "N1", "state": "Delhi", "city": "New Delhi"},
		{"pincode": 400001, "zone": "W1", "state": "Maharashtra", "city": "Mumbai"}
	]`

	records, err := ParseDirectoryJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseDirectoryJSON() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Pincode != 110001 || records[1].Pincode != 400001 {
		t.Errorf("pincodes = %d, %d; string and number forms must both normalize",
			records[0].Pincode, records[1].Pincode)
	}
}

func TestNormalizeClaims(t *testing.T) {
	rows := []map[string]interface{}{
		{"pincode": "110001", "zone": "N1", "oda": true},
		{"pin_code": float64(110002), "claimed_zone": "N2", "is_active": false},
		{"PIN": "110003", "is_oda": "yes"},
		{"zone": "N1"}, // no pincode at all
	}

	claims, dropped := NormalizeClaims(rows)

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	want := []reconcile.Claim{
		{Pincode: 110001, ClaimedZone: "N1", IsODA: true, Active: true},
		{Pincode: 110002, ClaimedZone: "N2", Active: false},
		{Pincode: 110003, IsODA: true, Active: true},
	}
	if !reflect.DeepEqual(claims, want) {
		t.Errorf("NormalizeClaims() = %+v, want %+v", claims, want)
	}
}

func TestParseClaimsJSON(t *testing.T) {
	payload := `[
		{"pincode": 110001, "zone": "N1", "oda": 1, "active": "yes"},
		{"pincode": "nope"}
	]`

	claims, dropped, err := ParseClaimsJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseClaimsJSON() error = %v", err)
	}
	if len(claims) != 1 || dropped != 1 {
		t.Fatalf("got %d claims, %d dropped; want 1 and 1", len(claims), dropped)
	}
	if !claims[0].IsODA || !claims[0].Active {
		t.Errorf("claim = %+v, want ODA and active from loose truthy values", claims[0])
	}
}
