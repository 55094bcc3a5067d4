// Package diary turns a rendered food diary report into typed food records.
//
// It never touches the network or a browser: callers hand it a Page, which
// is the report reduced to plain data (date headings, tables, rows).
package diary

import (
	"strings"
	"time"
)

type RowKind int

const (
	// RowData is a food entry.
	RowData RowKind = iota
	// RowMarker names the meal for the data rows after it.
	RowMarker
)

func (k RowKind) String() string {
	switch k {
	case RowMarker:
		return "marker"
	default:
		return "data"
	}
}

// Row is a single table row of a diary section.
type Row interface {
	Cells() []string
	Kind() RowKind
}

// TextRow is a Row backed by already extracted cell texts.
type TextRow struct {
	Texts  []string
	Marker bool
}

func (r TextRow) Cells() []string {
	return r.Texts
}

func (r TextRow) Kind() RowKind {
	if r.Marker {
		return RowMarker
	}
	return RowData
}

// DataRow is shorthand for a TextRow holding a food entry.
func DataRow(cells ...string) TextRow {
	return TextRow{Texts: cells}
}

// MarkerRow is shorthand for a TextRow naming a meal.
func MarkerRow(name string) TextRow {
	return TextRow{Texts: []string{name}, Marker: true}
}

type Table struct {
	// Header holds the cell texts of the header row, nil when the table
	// has none.
	Header []string
	Rows   []Row
}

// Page is a rendered diary report. Headings[i] is the date heading of the
// section whose food table is Tables[i].
type Page struct {
	Headings []string
	Tables   []Table
}

// Section is one calendar day of the diary.
type Section struct {
	Date time.Time
	Rows []Row
}

// MealContext tracks the meal most recently named by a marker row.
type MealContext struct {
	meal string
}

func (c *MealContext) Advance(row Row) {
	c.meal = strings.TrimSpace(strings.Join(row.Cells(), " "))
}

func (c *MealContext) Meal() string {
	return c.meal
}
