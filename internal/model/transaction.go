package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one sale row from a marketplace export, normalized
type Transaction struct {
	SaleDate    time.Time           `json:"sale_date"`
	ListingDate time.Time           `json:"listing_date"` // zero when the export left it blank
	Buyer       string              `json:"buyer"`
	Region      string              `json:"region"` // shipping state/region, free text
	Size        string              `json:"size"`
	Total       decimal.NullDecimal `json:"total"` // Valid=false when the cell was not numeric
	Fee         decimal.NullDecimal `json:"fee"`
	Year        int                 `json:"year"`
	Month       int                 `json:"month"` // 1-12
	SourceFile  string              `json:"source_file"`
	Line        int                 `json:"line"` // 1-based line in SourceFile, header is line 1
}

// RawRow is a header -> cell map for one CSV line before normalization
type RawRow map[string]string

// RowRejection records a row dropped by the loader
type RowRejection struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// FileStats summarizes what the loader did with a single input file
type FileStats struct {
	Path          string `json:"path"`
	RowsRead      int    `json:"rows_read"`
	RowsLoaded    int    `json:"rows_loaded"`
	RowsRejected  int    `json:"rows_rejected"`
	MissingTotals int    `json:"missing_totals"`
	MissingFees   int    `json:"missing_fees"`
}
