package myfitnesspal

import (
	"context"
	"io"

	"diary-export/lib/diary"
	"diary-export/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Selectors locate the parts of a printable diary report.
type Selectors struct {
	// date heading of each diary day
	Heading string `json:"heading" yaml:"heading"`
	// food table of each diary day, exercise and notes tables must not match
	Table string `json:"table" yaml:"table"`
	// header row, relative to Table
	HeaderRow string `json:"header_row" yaml:"header_row"`
	// food and meal rows, relative to Table
	BodyRow string `json:"body_row" yaml:"body_row"`
	// class carried by rows that name a meal
	MarkerClass string `json:"marker_class" yaml:"marker_class"`
}

var DefaultSelectors = Selectors{
	Heading:     "h2#date",
	Table:       "table#food",
	HeaderRow:   "thead tr",
	BodyRow:     "tbody tr",
	MarkerClass: "title",
}

func (s Selectors) withDefaults() Selectors {
	if s.Heading == "" {
		s.Heading = DefaultSelectors.Heading
	}
	if s.Table == "" {
		s.Table = DefaultSelectors.Table
	}
	if s.HeaderRow == "" {
		s.HeaderRow = DefaultSelectors.HeaderRow
	}
	if s.BodyRow == "" {
		s.BodyRow = DefaultSelectors.BodyRow
	}
	if s.MarkerClass == "" {
		s.MarkerClass = DefaultSelectors.MarkerClass
	}
	return s
}

// ParsePrintableDiary reads a printable diary report from r.
func ParsePrintableDiary(ctx context.Context, r io.Reader, sel Selectors) (diary.Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return diary.Page{}, err
	}
	return PageFromDocument(ctx, doc, sel), nil
}

// PageFromDocument reduces a report document to headings and tables in
// document order. Counts are not reconciled here, that is left to
// diary.Extract.
func PageFromDocument(ctx context.Context, doc *goquery.Document, sel Selectors) diary.Page {
	_, span := tracer.Start(ctx, "PageFromDocument")
	defer span.End()

	sel = sel.withDefaults()

	var page diary.Page
	doc.Find(sel.Heading).Each(func(_ int, s *goquery.Selection) {
		page.Headings = append(page.Headings, htmlutil.NodeText(s.Get(0)))
	})
	doc.Find(sel.Table).Each(func(_ int, s *goquery.Selection) {
		page.Tables = append(page.Tables, tableFromSelection(s, sel))
	})

	span.SetAttributes(
		attribute.Int("headings", len(page.Headings)),
		attribute.Int("tables", len(page.Tables)),
	)
	return page
}

func isHeaderOnlyRow(row *goquery.Selection) bool {
	cells := row.ChildrenFiltered("td, th")
	return cells.Length() > 0 && cells.Length() == row.ChildrenFiltered("th").Length()
}

func tableFromSelection(table *goquery.Selection, sel Selectors) diary.Table {
	var result diary.Table

	headerRow := table.Find(sel.HeaderRow).First()
	if headerRow.Length() > 0 {
		result.Header = htmlutil.CellTexts(headerRow)
	}

	table.Find(sel.BodyRow).Each(func(i int, row *goquery.Selection) {
		// tables without a <thead> get their <th> row parsed into <tbody>
		if i == 0 && len(result.Header) == 0 && isHeaderOnlyRow(row) {
			result.Header = htmlutil.CellTexts(row)
			return
		}
		result.Rows = append(result.Rows, diary.TextRow{
			Texts:  htmlutil.CellTexts(row),
			Marker: row.HasClass(sel.MarkerClass),
		})
	})

	if len(result.Header) == 0 {
		result.Header = nil
	}
	return result
}
