package pipeline

import (
	"fmt"
	"strconv"

	"go-sales-report/internal/model"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// formatMoney prints d with at least two decimals. Extra places are kept, never
// rounded, so a printed net always equals printed sales minus printed fees.
func formatMoney(d decimal.Decimal) string {
	places := -d.Exponent()
	if places < 2 {
		places = 2
	}
	return d.StringFixed(places)
}

// MonthName maps 1-12 to the full calendar name
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", &RangeError{Month: month}
	}
	return monthNames[month-1], nil
}

// YearlyHeader is the column list of a yearly report
func YearlyHeader(regionLabel string, sizes []string) []string {
	header := []string{
		"Month",
		"Total Sales",
		"Total Fees Paid",
		fmt.Sprintf("Shipments inside %s", regionLabel),
		"Net Sales",
	}
	return append(header, sizes...)
}

// YearlyRecord renders one monthly row; a totals row renders with a blank month
func YearlyRecord(m model.MonthlySummary, sizes []string) []string {
	record := []string{
		m.MonthName,
		formatMoney(m.TotalSales),
		formatMoney(m.TotalFees),
		strconv.Itoa(m.RegionShipments),
		formatMoney(m.NetSales),
	}
	for _, size := range sizes {
		record = append(record, strconv.Itoa(m.SizeCounts[size]))
	}
	return record
}

// YearlyCells is YearlyRecord with numeric cells kept numeric, for workbooks.
// withMonth=false drops the month column for the totals sheet.
func YearlyCells(m model.MonthlySummary, sizes []string, withMonth bool) []interface{} {
	var cells []interface{}
	if withMonth {
		cells = append(cells, m.MonthName)
	}
	cells = append(cells,
		m.TotalSales.InexactFloat64(),
		m.TotalFees.InexactFloat64(),
		m.RegionShipments,
		m.NetSales.InexactFloat64(),
	)
	for _, size := range sizes {
		cells = append(cells, m.SizeCounts[size])
	}
	return cells
}

// CustomerHeader is the column list of the customer report
func CustomerHeader() []string {
	return []string{"Buyer", "Amount Spent", "# of orders", "Last Purchase Date"}
}

func CustomerRecord(c model.CustomerSummary) []string {
	return []string{
		c.Buyer,
		formatMoney(c.AmountSpent),
		strconv.Itoa(c.Orders),
		c.LastPurchase.Format(dateLayout),
	}
}

func CustomerCells(c model.CustomerSummary) []interface{} {
	return []interface{}{
		c.Buyer,
		c.AmountSpent.InexactFloat64(),
		c.Orders,
		c.LastPurchase.Format(dateLayout),
	}
}
