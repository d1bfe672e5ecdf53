package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is one row of a yearly report
type MonthlySummary struct {
	Month           int             `json:"month"`      // 1-12, 0 for a totals row
	MonthName       string          `json:"month_name"` // blank for a totals row
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	NetSales        decimal.Decimal `json:"net_sales"`
	RegionShipments int             `json:"region_shipments"`
	SizeCounts      map[string]int  `json:"size_counts"`
	Orders          int             `json:"orders"`
}

// YearlySummary holds the monthly rows of one calendar year in calendar order
type YearlySummary struct {
	Year   int              `json:"year"`
	Months []MonthlySummary `json:"months"`
}

// Totals sums every numeric column across the year. The month name stays blank.
func (y *YearlySummary) Totals() MonthlySummary {
	t := MonthlySummary{
		TotalSales: decimal.Zero,
		TotalFees:  decimal.Zero,
		SizeCounts: make(map[string]int),
	}
	for _, m := range y.Months {
		t.TotalSales = t.TotalSales.Add(m.TotalSales)
		t.TotalFees = t.TotalFees.Add(m.TotalFees)
		t.RegionShipments += m.RegionShipments
		t.Orders += m.Orders
		for size, n := range m.SizeCounts {
			t.SizeCounts[size] += n
		}
	}
	t.NetSales = t.TotalSales.Sub(t.TotalFees)
	return t
}

// CustomerSummary is the lifetime view of a single buyer
type CustomerSummary struct {
	Buyer        string          `json:"buyer"`
	AmountSpent  decimal.Decimal `json:"amount_spent"`
	Orders       int             `json:"orders"`
	LastPurchase time.Time       `json:"last_purchase"`
}
