package diary

import "fmt"

// SchemaError means no usable column schema could be derived, the whole
// extraction is aborted.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s", e.Reason)
}

// SegmentMismatchError means the number of date headings differs from the
// number of food tables, assigning dates by position would misdate rows.
type SegmentMismatchError struct {
	Headings int
	Tables   int
}

func (e *SegmentMismatchError) Error() string {
	return fmt.Sprintf(
		"segment mismatch: found %d date headings but %d food tables",
		e.Headings, e.Tables,
	)
}

// HeadingError is returned when a date heading cannot be parsed with any
// of the configured layouts.
type HeadingError struct {
	Index int
	Text  string
	Err   error
}

func (e *HeadingError) Error() string {
	return fmt.Sprintf("date heading %d (%q): %s", e.Index, e.Text, e.Err)
}

func (e *HeadingError) Unwrap() error {
	return e.Err
}

// MalformedRowError describes a data row that was skipped because it had
// too few cells. It is collected, never returned as a fatal error.
type MalformedRowError struct {
	Section int
	Row     int
	Cells   int
}

func (e MalformedRowError) Error() string {
	return fmt.Sprintf(
		"malformed row %d in section %d: got %d cells, need at least %d",
		e.Row, e.Section, e.Cells, MinDataCells,
	)
}
