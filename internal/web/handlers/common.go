package handlers

import (
	"encoding/json"
	"net/http"
)

// Config represents the web server configuration (simplified)
type Config struct {
	Features struct {
		AuditEnabled   bool `json:"audit_enabled"`
		MetricsEnabled bool `json:"metrics_enabled"`
	} `json:"features"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
