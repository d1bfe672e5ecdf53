package pipeline

import (
	"fmt"
	"strings"
)

// cleanHeader trims whitespace, a UTF-8 BOM and all quotes from a header cell
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}

// validateHeader checks that every required column is present in the header.
// The first missing column is reported.
func validateHeader(file string, headers []string, required []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return &SchemaError{File: file, Column: col}
		}
	}
	return nil
}

// validateRow rejects rows whose width differs from the header
func validateRow(file string, line int, headers, record []string) error {
	if len(record) != len(headers) {
		return &ParseError{
			File:   file,
			Line:   line,
			Column: "row",
			Value:  strings.Join(record, ","),
			Err:    fmt.Errorf("expected %d fields, got %d", len(headers), len(record)),
		}
	}
	return nil
}
