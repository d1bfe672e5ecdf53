package model

import "time"

// ExportResult represents the result of writing one report artifact
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "excel", "sqlite"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Bytes       int64     `json:"bytes"`
	ExportedAt  time.Time `json:"exported_at"`
}
