package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/techforus64-cmd/frontend-sub001/internal/reconcile"
)

// Vendor uploads spell the same fields a dozen ways. The core accepts one
// claim shape; this adapter does the field-name reconciliation so that
// defensive shape-sniffing never leaks past the boundary.
var (
	pincodeKeys = []string{"pincode", "pin_code", "pin", "postal_code", "postalcode"}
	zoneKeys    = []string{"claimed_zone", "zone", "zone_code", "vendor_zone"}
	odaKeys     = []string{"is_oda", "oda", "isoda", "oda_flag"}
	activeKeys  = []string{"active", "is_active", "enabled", "serviceable"}
)

// NormalizeClaims converts loosely-shaped vendor rows into clean claims.
// Rows with no recognizable pincode are dropped and counted; a missing
// active field defaults to true since most vendor exports only list rows
// they serve.
func NormalizeClaims(rows []map[string]interface{}) ([]reconcile.Claim, int) {
	claims := make([]reconcile.Claim, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		raw, ok := firstValue(row, pincodeKeys)
		if !ok {
			dropped++
			continue
		}

		pincode, err := NormalizePincode(asString(raw))
		if err != nil {
			dropped++
			continue
		}

		claim := reconcile.Claim{Pincode: pincode, Active: true}

		if zone, ok := firstValue(row, zoneKeys); ok {
			claim.ClaimedZone = strings.TrimSpace(asString(zone))
		}
		if oda, ok := firstValue(row, odaKeys); ok {
			claim.IsODA = asBool(oda)
		}
		if active, ok := firstValue(row, activeKeys); ok {
			claim.Active = asBool(active)
		}

		claims = append(claims, claim)
	}

	return claims, dropped
}

// ParseClaimsJSON decodes an array of loosely-shaped claim objects and
// normalizes them. Returns the claims plus the number of dropped rows.
func ParseClaimsJSON(r io.Reader) ([]reconcile.Claim, int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode claims JSON: %w", err)
	}

	claims, dropped := NormalizeClaims(rows)
	return claims, dropped, nil
}

func firstValue(row map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			return v, true
		}
	}
	// Case-insensitive fallback for exports with odd capitalization.
	lowered := make(map[string]interface{}, len(row))
	for k, v := range row {
		lowered[strings.ToLower(k)] = v
	}
	for _, key := range keys {
		if v, ok := lowered[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return fmt.Sprintf("%.0f", val)
	case int:
		return fmt.Sprintf("%d", val)
	case bool:
		return fmt.Sprintf("%t", val)
	}
	return fmt.Sprintf("%v", v)
}

func asBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "y", "on":
			return true
		}
		return false
	case json.Number:
		return val.String() != "0"
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return false
}
