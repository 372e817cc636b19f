// Package importer is the boundary adapter between raw vendor/master data
// and the core encoder: CSV and JSON ingestion, field-name reconciliation,
// and pincode normalization all happen here so the core only ever sees one
// clean shape.
package importer

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/techforus64-cmd/frontend-sub001/internal/debug"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
)

// LoadDirectoryCSV reads master directory records from a CSV file with
// columns pincode,zone,state,city. The header row is skipped. Rows with an
// unparseable pincode are skipped with a log line rather than aborting the
// whole load.
func LoadDirectoryCSV(localDebug bool, filename string) ([]directory.PincodeRecord, error) {
	defer debug.Timing(localDebug, "load master directory CSV")()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []directory.PincodeRecord
	skipped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		pincode, err := NormalizePincode(row[0])
		if err != nil {
			debug.Output(localDebug, "Skipping row with bad pincode %q: %v", row[0], err)
			skipped++
			continue
		}

		records = append(records, directory.PincodeRecord{
			Pincode: pincode,
			Zone:    strings.TrimSpace(row[1]),
			State:   strings.TrimSpace(row[2]),
			City:    strings.TrimSpace(row[3]),
		})
	}

	debug.Output(localDebug, "Loaded %d directory records (%d skipped)", len(records), skipped)
	return records, nil
}

// rawDirectoryRecord tolerates pincodes arriving as JSON strings or numbers.
type rawDirectoryRecord struct {
	Pincode json.Number `json:"pincode"`
	Zone    string      `json:"zone"`
	State   string      `json:"state"`
	City    string      `json:"city"`
}

// ParseDirectoryJSON decodes an array of {pincode, zone, state, city}
// objects, normalizing pincodes to integers on the way in.
func ParseDirectoryJSON(r io.Reader) ([]directory.PincodeRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []rawDirectoryRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode directory JSON: %w", err)
	}

	records := make([]directory.PincodeRecord, 0, len(raw))
	for _, rec := range raw {
		pincode, err := NormalizePincode(rec.Pincode.String())
		if err != nil {
			continue
		}
		records = append(records, directory.PincodeRecord{
			Pincode: pincode,
			Zone:    strings.TrimSpace(rec.Zone),
			State:   strings.TrimSpace(rec.State),
			City:    strings.TrimSpace(rec.City),
		})
	}

	return records, nil
}

// NormalizePincode converts a pincode that may arrive as a quoted string,
// padded text, or a number into a plain positive integer.
func NormalizePincode(raw string) (int, error) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if cleaned == "" {
		return 0, fmt.Errorf("empty pincode")
	}

	// Some exports serialize pincodes as floats ("110001.0").
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		if rest := cleaned[i+1:]; strings.Trim(rest, "0") == "" {
			cleaned = cleaned[:i]
		}
	}

	pincode, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid pincode %q: %w", raw, err)
	}
	if pincode <= 0 {
		return 0, fmt.Errorf("invalid pincode %d: must be positive", pincode)
	}
	return pincode, nil
}

// PostgresSource loads master directory records from the master_pincode
// table. It implements directory.Source so the loader can memoize it.
type PostgresSource struct {
	DB *sql.DB
}

// Fetch reads every master pincode row.
func (s *PostgresSource) Fetch() ([]directory.PincodeRecord, error) {
	rows, err := s.DB.Query(`SELECT pincode, zone, state, city FROM master_pincode`)
	if err != nil {
		return nil, fmt.Errorf("failed to query master_pincode: %w", err)
	}
	defer rows.Close()

	var records []directory.PincodeRecord
	for rows.Next() {
		var rec directory.PincodeRecord
		if err := rows.Scan(&rec.Pincode, &rec.Zone, &rec.State, &rec.City); err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// InitSchema creates the master_pincode table if it doesn't exist.
func (s *PostgresSource) InitSchema() error {
	_, err := s.DB.Exec(`
	CREATE TABLE IF NOT EXISTS master_pincode (
		pincode integer PRIMARY KEY,
		zone    text NOT NULL,
		state   text,
		city    text
	);
	CREATE INDEX IF NOT EXISTS idx_master_pincode_zone ON master_pincode(zone);
	`)
	if err != nil {
		return fmt.Errorf("failed to create master_pincode schema: %w", err)
	}
	return nil
}

// ImportCSV loads a master directory CSV into postgres, upserting on
// pincode so re-imports stay idempotent.
func (s *PostgresSource) ImportCSV(localDebug bool, filename string) (int, error) {
	records, err := LoadDirectoryCSV(localDebug, filename)
	if err != nil {
		return 0, err
	}

	stmt, err := s.DB.Prepare(`
		INSERT INTO master_pincode (pincode, zone, state, city)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pincode) DO UPDATE SET
			zone = EXCLUDED.zone,
			state = EXCLUDED.state,
			city = EXCLUDED.city
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	for _, rec := range records {
		if _, err := stmt.Exec(rec.Pincode, rec.Zone, rec.State, rec.City); err != nil {
			debug.Output(localDebug, "Failed to insert pincode %d: %v", rec.Pincode, err)
			continue
		}
		imported++
	}

	debug.Output(localDebug, "Imported %d of %d directory records", imported, len(records))
	return imported, nil
}
