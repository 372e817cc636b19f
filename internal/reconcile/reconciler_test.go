package reconcile

import (
	"reflect"
	"testing"

	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
)

func testDirectory(t *testing.T) *directory.Directory {
	t.Helper()

	records := []directory.PincodeRecord{
		{Pincode: 110001, Zone: "N1", State: "Delhi", City: "New Delhi"},
		{Pincode: 110002, Zone: "N1", State: "Delhi", City: "New Delhi"},
		{Pincode: 110003, Zone: "N1", State: "Delhi", City: "New Delhi"},
		{Pincode: 122001, Zone: "N2", State: "Haryana", City: "Gurgaon"},
		{Pincode: 122002, Zone: "N2", State: "Haryana", City: "Gurgaon"},
		{Pincode: 400001, Zone: "W1", State: "Maharashtra", City: "Mumbai"},
	}

	dir, err := directory.Load(records)
	if err != nil {
		t.Fatalf("failed to load test directory: %v", err)
	}
	return dir
}

func TestReconcileFilesUnderMasterZone(t *testing.T) {
	dir := testDirectory(t)

	claims := []Claim{
		{Pincode: 110001, ClaimedZone: "N2", Active: true},
		{Pincode: 110002, ClaimedZone: "N1", Active: true},
		{Pincode: 400001, ClaimedZone: "W1", Active: true},
	}

	result := Reconcile(claims, nil, dir)

	// 110001 claims N2 but the master says N1: it files under N1 with an
	// override recorded.
	if !reflect.DeepEqual(result.ServedByZone["N1"], []int{110001, 110002}) {
		t.Errorf("ServedByZone[N1] = %v, want [110001 110002]", result.ServedByZone["N1"])
	}
	if _, ok := result.ServedByZone["N2"]; ok {
		t.Error("ServedByZone[N2] exists; mismatched claim must file under the master zone")
	}

	if got := result.Overrides[110001]; got != "N2" {
		t.Errorf("Overrides[110001] = %q, want N2", got)
	}
	if _, ok := result.Overrides[110002]; ok {
		t.Error("Overrides[110002] recorded for an agreeing claim")
	}

	if len(result.Discrepancies) != 1 {
		t.Fatalf("got %d discrepancy buckets, want 1", len(result.Discrepancies))
	}
	bucket := result.Discrepancies[0]
	if bucket.ClaimedZone != "N2" || bucket.MasterZone != "N1" || bucket.Count != 1 {
		t.Errorf("bucket = %+v, want claimed N2, master N1, count 1", bucket)
	}
	if result.TotalMismatched != 1 {
		t.Errorf("TotalMismatched = %d, want 1", result.TotalMismatched)
	}
}

func TestReconcileUnresolvablePincode(t *testing.T) {
	dir := testDirectory(t)

	claims := []Claim{
		// Unknown pincode with a claimed zone: filed under the claimed zone
		// so coverage statistics stay auditable.
		{Pincode: 999001, ClaimedZone: "N1", Active: true},
		// Unknown pincode with no zone at all: rejected with a warning.
		{Pincode: 999002, Active: true},
	}

	result := Reconcile(claims, nil, dir)

	if !reflect.DeepEqual(result.ServedByZone["N1"], []int{999001}) {
		t.Errorf("ServedByZone[N1] = %v, want [999001]", result.ServedByZone["N1"])
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}
	if result.Warnings[0].Pincode != 999002 {
		t.Errorf("warning pincode = %d, want 999002", result.Warnings[0].Pincode)
	}

	// A fallback filing is not a zone mismatch.
	if len(result.Overrides) != 0 || result.TotalMismatched != 0 {
		t.Errorf("fallback filing recorded overrides: %v", result.Overrides)
	}
}

func TestReconcileSkipsInactiveClaims(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile([]Claim{
		{Pincode: 110001, Active: true},
		{Pincode: 110002, Active: false},
	}, nil, dir)

	if !reflect.DeepEqual(result.ServedByZone["N1"], []int{110001}) {
		t.Errorf("ServedByZone[N1] = %v, want [110001]", result.ServedByZone["N1"])
	}
}

func TestReconcileODASubset(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile([]Claim{
		{Pincode: 110001, IsODA: true, Active: true},
		{Pincode: 110002, Active: true},
		{Pincode: 122001, IsODA: true, Active: true},
	}, nil, dir)

	if !reflect.DeepEqual(result.ODAByZone["N1"], []int{110001}) {
		t.Errorf("ODAByZone[N1] = %v, want [110001]", result.ODAByZone["N1"])
	}
	if !reflect.DeepEqual(result.ODAByZone["N2"], []int{122001}) {
		t.Errorf("ODAByZone[N2] = %v, want [122001]", result.ODAByZone["N2"])
	}
}

func TestReconcileDuplicateClaims(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile([]Claim{
		{Pincode: 110001, ClaimedZone: "N2", Active: true},
		{Pincode: 110001, ClaimedZone: "N2", Active: true},
	}, nil, dir)

	if !reflect.DeepEqual(result.ServedByZone["N1"], []int{110001}) {
		t.Errorf("ServedByZone[N1] = %v, want [110001]", result.ServedByZone["N1"])
	}
	if result.TotalMismatched != 1 {
		t.Errorf("TotalMismatched = %d, want 1 (unique pincodes only)", result.TotalMismatched)
	}
}

func TestReconcileDiscrepancyOrdering(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile([]Claim{
		{Pincode: 110001, ClaimedZone: "W1", Active: true},
		{Pincode: 110002, ClaimedZone: "W1", Active: true},
		{Pincode: 110003, ClaimedZone: "N2", Active: true},
	}, nil, dir)

	if len(result.Discrepancies) != 2 {
		t.Fatalf("got %d buckets, want 2", len(result.Discrepancies))
	}
	if result.Discrepancies[0].ClaimedZone != "W1" || result.Discrepancies[0].Count != 2 {
		t.Errorf("first bucket = %+v, want W1->N1 with count 2", result.Discrepancies[0])
	}
	if result.TotalMismatched != 3 {
		t.Errorf("TotalMismatched = %d, want 3", result.TotalMismatched)
	}
}

func TestReconcileZoneOnly(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile(nil, []string{"N1", "N2", "N1"}, dir)

	if !result.ZoneOnly {
		t.Error("ZoneOnly flag not set")
	}
	if !reflect.DeepEqual(result.ServedByZone["N1"], []int{110001, 110002, 110003}) {
		t.Errorf("ServedByZone[N1] = %v, want the full master set", result.ServedByZone["N1"])
	}
	if !reflect.DeepEqual(result.ServedByZone["N2"], []int{122001, 122002}) {
		t.Errorf("ServedByZone[N2] = %v, want the full master set", result.ServedByZone["N2"])
	}
	if len(result.ServedByZone) != 2 {
		t.Errorf("ServedByZone has %d zones, want 2 (duplicate code collapsed)", len(result.ServedByZone))
	}
}

func TestReconcileZoneOnlyUnknownZone(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile(nil, []string{"X9"}, dir)

	if got := result.ServedByZone["X9"]; len(got) != 0 {
		t.Errorf("ServedByZone[X9] = %v, want empty", got)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1 for unknown zone code", len(result.Warnings))
	}
}

func TestReconcileZoneOnlyTakesPrecedence(t *testing.T) {
	dir := testDirectory(t)

	result := Reconcile([]Claim{{Pincode: 400001, Active: true}}, []string{"N1"}, dir)

	if _, ok := result.ServedByZone["W1"]; ok {
		t.Error("explicit claims processed despite zone-only mode")
	}
	if _, ok := result.ServedByZone["N1"]; !ok {
		t.Error("zone-only claim missing from result")
	}
}
