package utsf

import (
	"fmt"

	"github.com/techforus64-cmd/frontend-sub001/internal/coverage"
	"github.com/techforus64-cmd/frontend-sub001/internal/rangecodec"
)

// ValidationResult is the outcome of a post-assembly consistency check.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validate runs internal consistency checks over an assembled document. It
// exists to catch encoder bugs where a coverage mode was chosen but its
// payload came out empty, which on read-back would be indistinguishable from
// FULL_ZONE or NOT_SERVED. Findings are advisory; the caller decides whether
// to log or alert.
func Validate(doc *Document) ValidationResult {
	var errs []string

	if doc == nil {
		return ValidationResult{Errors: []string{"document is nil"}}
	}

	if doc.Version == "" {
		errs = append(errs, "missing version")
	}
	if doc.GeneratedAt.IsZero() {
		errs = append(errs, "missing generated_at timestamp")
	}
	if doc.Serviceability == nil {
		errs = append(errs, "missing serviceability section")
	}
	if doc.ODA == nil {
		errs = append(errs, "missing oda section")
	}
	if doc.Updates == nil {
		errs = append(errs, "missing updates audit log")
	}

	errs = append(errs, checkPayloads("serviceability", doc.Serviceability)...)
	errs = append(errs, checkPayloads("oda", doc.ODA)...)

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func checkPayloads(section string, coverages map[string]ZoneCoverage) []string {
	var errs []string

	for zone, zc := range coverages {
		switch zc.Mode {
		case coverage.FullMinusExceptions:
			if rangecodec.Count(zc.ExceptRanges, zc.ExceptSingles) == 0 {
				errs = append(errs, fmt.Sprintf(
					"%s zone %s: FULL_MINUS_EXCEPTIONS with no exception entries", section, zone))
			}
		case coverage.OnlyServed:
			if rangecodec.Count(zc.ServedRanges, zc.ServedSingles) == 0 {
				errs = append(errs, fmt.Sprintf(
					"%s zone %s: ONLY_SERVED with no served entries", section, zone))
			}
		}
	}

	return errs
}
