package pipeline

import "fmt"

// SchemaError reports a required column missing from an input file. It aborts the run.
type SchemaError struct {
	File   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s: missing required column %q", e.File, e.Column)
}

// ParseError reports a row whose date cell could not be parsed. The row is dropped.
type ParseError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s:%d: column %q: cannot parse %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RangeError reports a month number outside 1-12
type RangeError struct {
	Month int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error: month %d outside 1-12", e.Month)
}
