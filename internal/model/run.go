package model

import "time"

// RunSummary describes one report run
type RunSummary struct {
	ID           string         `json:"id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	Status       string         `json:"status"` // "running", "completed", "failed"
	Files        []FileStats    `json:"files"`
	FileCount    int            `json:"file_count"`
	RowsLoaded   int            `json:"rows_loaded"`
	RowsRejected int            `json:"rows_rejected"`
	Years        []int          `json:"years"`
	Customers    int            `json:"customers"`
	Artifacts    []ExportResult `json:"artifacts"`
	Error        string         `json:"error,omitempty"`
}
