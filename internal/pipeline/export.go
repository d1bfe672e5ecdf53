package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"go-sales-report/internal/logger"
	"go-sales-report/internal/model"
	"go-sales-report/pkg/utils"

	"github.com/xuri/excelize/v2"
)

const (
	sheetMonthly   = "Monthly Summary"
	sheetTotals    = "Yearly Totals"
	sheetCustomers = "Customer Summary"
)

// Exporter writes the report tables as CSV files and workbooks
type Exporter struct {
	Output      *utils.OutputManager
	Sizes       []string
	RegionLabel string
}

// sheet is one named area of a workbook
type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// Export writes every yearly report (with its totals row) and the customer report.
// Existing files are overwritten. The first failure aborts the export.
func (e *Exporter) Export(ctx context.Context, yearly map[int]*model.YearlySummary, customers []model.CustomerSummary) ([]model.ExportResult, error) {
	log := logger.FromContext(ctx)

	if err := e.Output.EnsureLayout(); err != nil {
		return nil, err
	}

	years := make([]int, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Ints(years)

	var results []model.ExportResult
	record := func(path string, count int) {
		size, _ := e.Output.GetFileSize(path)
		results = append(results, model.ExportResult{
			Type:        e.Output.GetFileType(path),
			Path:        path,
			RecordCount: count,
			Bytes:       size,
			ExportedAt:  time.Now(),
		})
		log.Info().Str("path", path).Int("records", count).Msg("report written")
	}

	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		summary := yearly[year]
		totals := summary.Totals()

		records := make([][]string, 0, len(summary.Months)+1)
		for _, m := range summary.Months {
			records = append(records, YearlyRecord(m, e.Sizes))
		}
		records = append(records, YearlyRecord(totals, e.Sizes))

		path := e.Output.YearlyCSVPath(year)
		if err := writeCSV(path, YearlyHeader(e.RegionLabel, e.Sizes), records); err != nil {
			return results, err
		}
		record(path, len(records))

		monthly := sheet{name: sheetMonthly, header: YearlyHeader(e.RegionLabel, e.Sizes)}
		for _, m := range summary.Months {
			monthly.rows = append(monthly.rows, YearlyCells(m, e.Sizes, true))
		}
		yearTotals := sheet{
			name:   sheetTotals,
			header: YearlyHeader(e.RegionLabel, e.Sizes)[1:],
			rows:   [][]interface{}{YearlyCells(totals, e.Sizes, false)},
		}

		path = e.Output.YearlyWorkbookPath(year)
		if err := writeWorkbook(path, monthly, yearTotals); err != nil {
			return results, err
		}
		record(path, len(monthly.rows))
	}

	// No totals row for customers: lifetime amounts per buyer are not summed.
	customerRecords := make([][]string, 0, len(customers))
	customerSheet := sheet{name: sheetCustomers, header: CustomerHeader()}
	for _, c := range customers {
		customerRecords = append(customerRecords, CustomerRecord(c))
		customerSheet.rows = append(customerSheet.rows, CustomerCells(c))
	}

	path := e.Output.CustomerCSVPath()
	if err := writeCSV(path, CustomerHeader(), customerRecords); err != nil {
		return results, err
	}
	record(path, len(customerRecords))

	path = e.Output.CustomerWorkbookPath()
	if err := writeWorkbook(path, customerSheet); err != nil {
		return results, err
	}
	record(path, len(customerSheet.rows))

	return results, nil
}

// writeCSV truncates path and writes header plus records
func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	return file.Close()
}

// writeWorkbook saves one workbook with the given sheets, first sheet active
func writeWorkbook(path string, sheets ...sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", s.name, err)
		}

		header := s.header
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of sheet %s: %w", s.name, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %s: %w", r+2, s.name, err)
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
