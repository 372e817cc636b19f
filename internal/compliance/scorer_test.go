package compliance

import (
	"testing"

	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
)

func scorerDirectory(t *testing.T) *directory.Directory {
	t.Helper()

	var records []directory.PincodeRecord
	for i := 0; i < 100; i++ {
		records = append(records, directory.PincodeRecord{
			Pincode: 110001 + i, Zone: "N1", State: "Delhi", City: "New Delhi",
		})
	}
	for i := 0; i < 50; i++ {
		records = append(records, directory.PincodeRecord{
			Pincode: 122001 + i, Zone: "N2", State: "Haryana", City: "Gurgaon",
		})
	}

	dir, err := directory.Load(records)
	if err != nil {
		t.Fatalf("failed to load test directory: %v", err)
	}
	return dir
}

func TestScorePartialCoverage(t *testing.T) {
	dir := scorerDirectory(t)

	// 80 of N1's 100 pincodes claimed; N2 untouched contributes nothing.
	served := make([]int, 80)
	for i := range served {
		served[i] = 110001 + i
	}

	got := Score(map[string][]int{"N1": served}, dir)
	if got != 0.80 {
		t.Errorf("Score() = %v, want 0.80", got)
	}
}

func TestScoreFullCoverage(t *testing.T) {
	dir := scorerDirectory(t)

	served := make([]int, 100)
	for i := range served {
		served[i] = 110001 + i
	}

	if got := Score(map[string][]int{"N1": served}, dir); got != 1.0 {
		t.Errorf("Score() = %v, want 1.0", got)
	}
}

func TestScoreVacuousPass(t *testing.T) {
	dir := scorerDirectory(t)

	if got := Score(map[string][]int{}, dir); got != 1.0 {
		t.Errorf("Score() with no claims = %v, want 1.0", got)
	}

	// A zone unknown to the directory has no master pincodes to consider.
	if got := Score(map[string][]int{"X9": {999001}}, dir); got != 1.0 {
		t.Errorf("Score() with only an unknown zone = %v, want 1.0", got)
	}
}

func TestScoreMultipleZones(t *testing.T) {
	dir := scorerDirectory(t)

	n1 := make([]int, 100)
	for i := range n1 {
		n1[i] = 110001 + i
	}
	n2 := make([]int, 20)
	for i := range n2 {
		n2[i] = 122001 + i
	}

	// 150 considered, 30 missing in N2.
	got := Score(map[string][]int{"N1": n1, "N2": n2}, dir)
	if got != 0.80 {
		t.Errorf("Score() = %v, want 0.80", got)
	}
}

func TestScoreRounding(t *testing.T) {
	dir := scorerDirectory(t)

	// 49 of N2's 50 pincodes: 1 - 1/50 = 0.98.
	served := make([]int, 49)
	for i := range served {
		served[i] = 122001 + i
	}

	if got := Score(map[string][]int{"N2": served}, dir); got != 0.98 {
		t.Errorf("Score() = %v, want 0.98", got)
	}
}
