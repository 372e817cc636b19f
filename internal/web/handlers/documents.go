package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/techforus64-cmd/frontend-sub001/internal/audit"
	"github.com/techforus64-cmd/frontend-sub001/internal/utsf"
)

// DocumentsHandler serves stored UTSF documents and their update trail
type DocumentsHandler struct {
	Tracker *audit.Tracker
	Config  *Config
}

// GetDocument handles GET /api/documents/{id}
func (h *DocumentsHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["id"]

	doc, err := h.Tracker.GetDocument(docID)
	if err != nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// GetHistory handles GET /api/documents/{id}/history
func (h *DocumentsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["id"]

	updates, err := h.Tracker.GetUpdates(docID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if updates == nil {
		updates = []utsf.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, updates)
}

// AddUpdate handles POST /api/documents/{id}/updates. The stored document
// snapshot is never rewritten; the entry lands in the append-only log.
func (h *DocumentsHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["id"]

	var entry utsf.AuditEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update entry")
		return
	}
	if entry.Editor == "" {
		writeError(w, http.StatusBadRequest, "editor is required")
		return
	}

	if err := h.Tracker.AppendUpdate(docID, entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to append update")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// ValidateDocument handles POST /api/documents/validate: consistency-check
// a document supplied by the caller without storing anything.
func (h *DocumentsHandler) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	var doc utsf.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document")
		return
	}

	writeJSON(w, http.StatusOK, utsf.Validate(&doc))
}
