package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-sales-report/internal/config"
	"go-sales-report/internal/logger"
	"go-sales-report/internal/model"
)

// LoadResult is the unified table plus what the loader dropped on the way
type LoadResult struct {
	Transactions []model.Transaction
	Rejected     []model.RowRejection
	Files        []model.FileStats
}

// DiscoverFiles lists the files in dir whose name matches pattern, case-insensitively.
// Subdirectories are not searched. Results are sorted by name.
func DiscoverFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	pattern = strings.ToLower(pattern)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, strings.ToLower(entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// LoadDirectory loads every matching file of cfg.InputDir into one table.
// A SchemaError in any file aborts the whole load.
func LoadDirectory(ctx context.Context, cfg *config.Config) (*LoadResult, error) {
	log := logger.FromContext(ctx)

	files, err := DiscoverFiles(cfg.InputDir, cfg.FilePattern)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", cfg.InputDir).Int("files", len(files)).Msg("input files discovered")

	result := &LoadResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileResult, err := LoadFile(ctx, path, cfg)
		if err != nil {
			return nil, err
		}
		result.Transactions = append(result.Transactions, fileResult.Transactions...)
		result.Rejected = append(result.Rejected, fileResult.Rejected...)
		result.Files = append(result.Files, fileResult.Files...)
	}
	return result, nil
}

// LoadFile reads one CSV export. Rows with unparseable dates are dropped and
// recorded in Rejected; a missing required column fails the file with a SchemaError.
func LoadFile(ctx context.Context, path string, cfg *config.Config) (*LoadResult, error) {
	log := logger.FromContext(ctx)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		headers = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}
	if err := validateHeader(path, headers, cfg.Columns.Required()); err != nil {
		return nil, err
	}

	stats := model.FileStats{Path: path}
	result := &LoadResult{}
	reject := func(line int, err error) {
		stats.RowsRejected++
		result.Rejected = append(result.Rejected, model.RowRejection{File: path, Line: line, Reason: err.Error()})
		log.Warn().Err(err).Str("file", path).Int("line", line).Msg("row rejected")
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				stats.RowsRead++
				reject(csvErr.StartLine, err)
				continue
			}
			return nil, fmt.Errorf("CSV read error in %s: %w", path, err)
		}
		stats.RowsRead++
		line, _ := csvReader.FieldPos(0)

		if err := validateRow(path, line, headers, record); err != nil {
			reject(line, err)
			continue
		}

		raw := make(model.RawRow, len(headers))
		for i, h := range headers {
			raw[h] = record[i]
		}

		txn, err := normalizeRow(path, line, raw, cfg)
		if err != nil {
			reject(line, err)
			continue
		}
		if !txn.Total.Valid {
			stats.MissingTotals++
		}
		if !txn.Fee.Valid {
			stats.MissingFees++
		}
		stats.RowsLoaded++
		result.Transactions = append(result.Transactions, txn)
	}

	result.Files = []model.FileStats{stats}
	log.Info().
		Str("file", path).
		Int("rows", stats.RowsLoaded).
		Int("rejected", stats.RowsRejected).
		Int("missing_totals", stats.MissingTotals).
		Int("missing_fees", stats.MissingFees).
		Msg("file loaded")
	return result, nil
}
