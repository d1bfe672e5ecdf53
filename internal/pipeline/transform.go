package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go-sales-report/internal/config"
	"go-sales-report/internal/model"

	"github.com/shopspring/decimal"
)

var errEmptyDate = errors.New("empty date")

// ParseCurrency strips currency symbols, thousands separators and spaces, then
// parses the rest as a decimal. Anything unparseable comes back as missing (Valid=false).
func ParseCurrency(s string) decimal.NullDecimal {
	var b strings.Builder
	for _, r := range s {
		if r == ',' || unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := b.String()
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseDate tries each layout in order and returns the first match in UTC
func ParseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %d known formats", len(layouts))
}

// normalizeRow turns a raw CSV row into a Transaction, deriving year and month
// from the sale date and cleaning the two currency columns.
func normalizeRow(file string, line int, raw model.RawRow, cfg *config.Config) (model.Transaction, error) {
	raw = trimStrings(raw)
	cols := cfg.Columns

	saleDate, err := ParseDate(raw[cols.SaleDate], cfg.DateLayouts)
	if err != nil {
		return model.Transaction{}, &ParseError{File: file, Line: line, Column: cols.SaleDate, Value: raw[cols.SaleDate], Err: err}
	}

	var listingDate time.Time
	if raw[cols.ListingDate] != "" {
		listingDate, err = ParseDate(raw[cols.ListingDate], cfg.DateLayouts)
		if err != nil {
			return model.Transaction{}, &ParseError{File: file, Line: line, Column: cols.ListingDate, Value: raw[cols.ListingDate], Err: err}
		}
	}

	return model.Transaction{
		SaleDate:    saleDate,
		ListingDate: listingDate,
		Buyer:       raw[cols.Buyer],
		Region:      raw[cols.Region],
		Size:        raw[cols.Size],
		Total:       ParseCurrency(raw[cols.Total]),
		Fee:         ParseCurrency(raw[cols.Fee]),
		Year:        saleDate.Year(),
		Month:       int(saleDate.Month()),
		SourceFile:  file,
		Line:        line,
	}, nil
}

// trimStrings trims whitespace from every cell
func trimStrings(rec model.RawRow) model.RawRow {
	for key, val := range rec {
		rec[key] = strings.TrimSpace(val)
	}
	return rec
}
