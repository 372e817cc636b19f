package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/techforus64-cmd/frontend-sub001/internal/debug"
	"github.com/techforus64-cmd/frontend-sub001/internal/utsf"
)

// Tracker persists encoded documents and their governance trail: one row per
// encode run, the document snapshot as jsonb, and an append-only update log.
// Documents themselves are never rewritten; edits only ever land in
// document_update.
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a new audit tracker
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// EncodeRun summarizes one encode call for the audit trail.
type EncodeRun struct {
	RunID        string        `json:"run_id"`
	VendorID     string        `json:"vendor_id"`
	DocumentID   string        `json:"document_id"`
	ClaimCount   int           `json:"claim_count"`
	WarningCount int           `json:"warning_count"`
	Checksum     string        `json:"checksum"`
	Changed      bool          `json:"changed"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// InitSchema creates the audit tables if they don't exist
func (t *Tracker) InitSchema() error {
	_, err := t.db.Exec(`
	CREATE TABLE IF NOT EXISTS utsf_document (
		doc_id       uuid PRIMARY KEY,
		vendor_id    text NOT NULL,
		version      text NOT NULL,
		checksum     text,
		document     jsonb NOT NULL,
		created_at   timestamptz DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS encode_run (
		run_id        uuid PRIMARY KEY,
		vendor_id     text NOT NULL,
		doc_id        uuid REFERENCES utsf_document(doc_id),
		claim_count   integer NOT NULL,
		warning_count integer NOT NULL,
		checksum      text,
		changed       boolean NOT NULL,
		duration_ms   bigint,
		created_at    timestamptz DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS document_update (
		update_id  bigserial PRIMARY KEY,
		doc_id     uuid REFERENCES utsf_document(doc_id),
		editor     text NOT NULL,
		reason     text,
		summary    text,
		created_at timestamptz DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_utsf_document_vendor ON utsf_document(vendor_id);
	CREATE INDEX IF NOT EXISTS idx_encode_run_vendor ON encode_run(vendor_id);
	CREATE INDEX IF NOT EXISTS idx_document_update_doc ON document_update(doc_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}

// RecordRun stores the document snapshot and the encode run in one
// transaction. The run's Changed flag is computed against the vendor's
// previous checksum before this run is written.
func (t *Tracker) RecordRun(localDebug bool, doc *utsf.Document, run EncodeRun) error {
	defer debug.Timing(localDebug, "record encode run")()

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO utsf_document (doc_id, vendor_id, version, checksum, document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, doc.Meta.DocumentID, run.VendorID, doc.Version, run.Checksum, docJSON, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	_, err = tx.Exec(`
		INSERT INTO encode_run (run_id, vendor_id, doc_id, claim_count, warning_count, checksum, changed, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.RunID, run.VendorID, run.DocumentID, run.ClaimCount, run.WarningCount,
		run.Checksum, run.Changed, run.Duration.Milliseconds(), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert encode run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	debug.Output(localDebug, "Recorded encode run %s for vendor %s (doc %s)",
		run.RunID, run.VendorID, run.DocumentID)
	return nil
}

// LatestChecksum returns the checksum stored with the vendor's most recent
// document, or empty string if the vendor has never been encoded.
func (t *Tracker) LatestChecksum(vendorID string) (string, error) {
	var sum sql.NullString
	err := t.db.QueryRow(`
		SELECT checksum FROM utsf_document
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, vendorID).Scan(&sum)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest checksum: %w", err)
	}
	return sum.String, nil
}

// GetDocument loads a stored document snapshot by id.
func (t *Tracker) GetDocument(docID string) (*utsf.Document, error) {
	var docJSON []byte
	err := t.db.QueryRow(`
		SELECT document FROM utsf_document WHERE doc_id = $1
	`, docID).Scan(&docJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", docID, err)
	}

	var doc utsf.Document
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", docID, err)
	}

	// Stored snapshots stay immutable; appended updates live in their own
	// table and are merged on read.
	updates, err := t.GetUpdates(docID)
	if err != nil {
		return nil, err
	}
	doc.Updates = append(doc.Updates, updates...)

	return &doc, nil
}

// AppendUpdate records a governance edit against a stored document.
func (t *Tracker) AppendUpdate(docID string, entry utsf.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := t.db.Exec(`
		INSERT INTO document_update (doc_id, editor, reason, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, docID, entry.Editor, entry.Reason, entry.Summary, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append document update: %w", err)
	}
	return nil
}

// GetUpdates returns the append-only update log for a document, oldest first.
func (t *Tracker) GetUpdates(docID string) ([]utsf.AuditEntry, error) {
	rows, err := t.db.Query(`
		SELECT editor, reason, summary, created_at
		FROM document_update
		WHERE doc_id = $1
		ORDER BY created_at ASC, update_id ASC
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document updates: %w", err)
	}
	defer rows.Close()

	var updates []utsf.AuditEntry
	for rows.Next() {
		var entry utsf.AuditEntry
		var reason, summary sql.NullString
		if err := rows.Scan(&entry.Editor, &reason, &summary, &entry.Timestamp); err != nil {
			continue
		}
		entry.Reason = reason.String
		entry.Summary = summary.String
		updates = append(updates, entry)
	}

	return updates, nil
}

// RunStats summarizes encode activity for the stats endpoint.
type RunStats struct {
	TotalRuns      int64     `json:"total_runs"`
	TotalDocuments int64     `json:"total_documents"`
	TotalVendors   int64     `json:"total_vendors"`
	ChangedRuns    int64     `json:"changed_runs"`
	LastRunAt      time.Time `json:"last_run_at"`
}

// GetRunStats returns aggregate encode statistics.
func (t *Tracker) GetRunStats() (*RunStats, error) {
	stats := &RunStats{}

	var lastRun sql.NullTime
	err := t.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(DISTINCT vendor_id),
		       COUNT(CASE WHEN changed THEN 1 END),
		       MAX(created_at)
		FROM encode_run
	`).Scan(&stats.TotalRuns, &stats.TotalVendors, &stats.ChangedRuns, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("failed to query run stats: %w", err)
	}
	if lastRun.Valid {
		stats.LastRunAt = lastRun.Time
	}

	err = t.db.QueryRow(`SELECT COUNT(*) FROM utsf_document`).Scan(&stats.TotalDocuments)
	if err != nil {
		return nil, fmt.Errorf("failed to query document count: %w", err)
	}

	return stats, nil
}
