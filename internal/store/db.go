package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-sales-report/internal/model"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Tables are dropped and recreated on every save; the database only ever
// mirrors the latest run.
var schema = []string{
	`DROP TABLE IF EXISTS report_runs`,
	`DROP TABLE IF EXISTS transactions`,
	`DROP TABLE IF EXISTS monthly_summary`,
	`DROP TABLE IF EXISTS monthly_sizes`,
	`DROP TABLE IF EXISTS customer_summary`,
	`CREATE TABLE report_runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		files INTEGER,
		rows_loaded INTEGER,
		rows_rejected INTEGER,
		started_at DATETIME,
		finished_at DATETIME
	)`,
	`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_date TEXT,
		listing_date TEXT,
		buyer TEXT,
		region TEXT,
		size TEXT,
		total TEXT,
		fee TEXT,
		year INTEGER,
		month INTEGER,
		source_file TEXT,
		line INTEGER
	)`,
	`CREATE TABLE monthly_summary (
		year INTEGER,
		month INTEGER,
		month_name TEXT,
		total_sales TEXT,
		total_fees TEXT,
		net_sales TEXT,
		region_shipments INTEGER,
		orders INTEGER,
		PRIMARY KEY (year, month)
	)`,
	`CREATE TABLE monthly_sizes (
		year INTEGER,
		month INTEGER,
		size TEXT,
		count INTEGER,
		PRIMARY KEY (year, month, size)
	)`,
	`CREATE TABLE customer_summary (
		buyer TEXT PRIMARY KEY,
		amount_spent TEXT,
		orders INTEGER,
		last_purchase TEXT
	)`,
}

// Store is a SQLite mirror of the report tables
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport replaces the database content with the given run in one transaction
func (s *Store) SaveReport(ctx context.Context, run model.RunSummary, txns []model.Transaction,
	yearly map[int]*model.YearlySummary, customers []model.CustomerSummary) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO report_runs (id, status, files, rows_loaded, rows_rejected, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.FileCount, run.RowsLoaded, run.RowsRejected, run.StartedAt.UTC(), run.FinishedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if err = insertTransactions(ctx, tx, txns); err != nil {
		return err
	}
	if err = insertYearly(ctx, tx, yearly); err != nil {
		return err
	}
	if err = insertCustomers(ctx, tx, customers); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTransactions(ctx context.Context, tx *sql.Tx, txns []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(sale_date, listing_date, buyer, region, size, total, fee, year, month, source_file, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range txns {
		var listing interface{}
		if !t.ListingDate.IsZero() {
			listing = t.ListingDate.Format(dateLayout)
		}
		if _, err := stmt.ExecContext(ctx, t.SaleDate.Format(dateLayout), listing, t.Buyer, t.Region, t.Size,
			nullString(t.Total), nullString(t.Fee), t.Year, t.Month, t.SourceFile, t.Line); err != nil {
			return fmt.Errorf("failed to save transaction %s:%d: %w", t.SourceFile, t.Line, err)
		}
	}
	return nil
}

func insertYearly(ctx context.Context, tx *sql.Tx, yearly map[int]*model.YearlySummary) error {
	for year, summary := range yearly {
		for _, m := range summary.Months {
			if _, err := tx.ExecContext(ctx, `INSERT INTO monthly_summary
				(year, month, month_name, total_sales, total_fees, net_sales, region_shipments, orders)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				year, m.Month, m.MonthName, m.TotalSales.String(), m.TotalFees.String(), m.NetSales.String(),
				m.RegionShipments, m.Orders); err != nil {
				return fmt.Errorf("failed to save summary %d-%02d: %w", year, m.Month, err)
			}
			for size, count := range m.SizeCounts {
				if _, err := tx.ExecContext(ctx, `INSERT INTO monthly_sizes (year, month, size, count) VALUES (?, ?, ?, ?)`,
					year, m.Month, size, count); err != nil {
					return fmt.Errorf("failed to save size counts %d-%02d: %w", year, m.Month, err)
				}
			}
		}
	}
	return nil
}

func insertCustomers(ctx context.Context, tx *sql.Tx, customers []model.CustomerSummary) error {
	for _, c := range customers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customer_summary (buyer, amount_spent, orders, last_purchase) VALUES (?, ?, ?, ?)`,
			c.Buyer, c.AmountSpent.String(), c.Orders, c.LastPurchase.Format(dateLayout)); err != nil {
			return fmt.Errorf("failed to save customer %s: %w", c.Buyer, err)
		}
	}
	return nil
}

func nullString(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

// LatestRun returns the run currently mirrored in the database. Per-file stats
// are not stored, so Files is nil and only FileCount is set.
func (s *Store) LatestRun(ctx context.Context) (model.RunSummary, error) {
	var run model.RunSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, files, rows_loaded, rows_rejected, started_at, finished_at FROM report_runs LIMIT 1`).
		Scan(&run.ID, &run.Status, &run.FileCount, &run.RowsLoaded, &run.RowsRejected, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		return model.RunSummary{}, err
	}
	return run, nil
}

// Customers reads the customer summary back, sorted by buyer
func (s *Store) Customers(ctx context.Context) ([]model.CustomerSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT buyer, amount_spent, orders, last_purchase FROM customer_summary ORDER BY buyer`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.CustomerSummary
	for rows.Next() {
		var c model.CustomerSummary
		var amount, last string
		if err := rows.Scan(&c.Buyer, &amount, &c.Orders, &last); err != nil {
			return nil, err
		}
		if c.AmountSpent, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		if c.LastPurchase, err = time.Parse(dateLayout, last); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// MonthlySummaries reads the monthly rows of one year back in calendar order
func (s *Store) MonthlySummaries(ctx context.Context, year int) ([]model.MonthlySummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, month_name, total_sales, total_fees, net_sales, region_shipments, orders
		FROM monthly_summary WHERE year = ? ORDER BY month`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []model.MonthlySummary
	index := make(map[int]int)
	for rows.Next() {
		var m model.MonthlySummary
		var sales, fees, net string
		if err := rows.Scan(&m.Month, &m.MonthName, &sales, &fees, &net, &m.RegionShipments, &m.Orders); err != nil {
			return nil, err
		}
		if m.TotalSales, err = decimal.NewFromString(sales); err != nil {
			return nil, err
		}
		if m.TotalFees, err = decimal.NewFromString(fees); err != nil {
			return nil, err
		}
		if m.NetSales, err = decimal.NewFromString(net); err != nil {
			return nil, err
		}
		m.SizeCounts = make(map[string]int)
		index[m.Month] = len(months)
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sizeRows, err := s.db.QueryContext(ctx, `SELECT month, size, count FROM monthly_sizes WHERE year = ?`, year)
	if err != nil {
		return nil, err
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var month, count int
		var size string
		if err := sizeRows.Scan(&month, &size, &count); err != nil {
			return nil, err
		}
		if i, ok := index[month]; ok {
			months[i].SizeCounts[size] = count
		}
	}
	return months, sizeRows.Err()
}
