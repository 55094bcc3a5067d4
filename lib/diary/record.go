package diary

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("diary-export/lib/diary")

const DateLayout = "2006-01-02"

// FoodRecord is one food entry of the diary.
type FoodRecord struct {
	User string
	Date time.Time
	Meal string
	// Food is the name and quantity as rendered, e.g. "Banana, medium".
	Food string
	// Nutrients are aligned with the schema fields following "food".
	Nutrients []string
}

// Fields returns the record as its schema-ordered string tuple.
func (r FoodRecord) Fields() []string {
	fields := make([]string, 0, len(FixedFields)+1+len(r.Nutrients))
	fields = append(fields, r.User, r.Date.Format(DateLayout), r.Meal, r.Food)
	fields = append(fields, r.Nutrients...)
	return fields
}

// Value looks a field of the record up by its canonical name.
func (s Schema) Value(r FoodRecord, field string) (string, bool) {
	idx := s.Index(field)
	if idx < 0 {
		return "", false
	}
	fields := r.Fields()
	if idx >= len(fields) {
		return "", false
	}
	return fields[idx], true
}

// Assemble joins the rows extracted from one section with the section date
// and the analyzed user.
func Assemble(user string, date time.Time, rows []ExtractedRow) []FoodRecord {
	records := make([]FoodRecord, 0, len(rows))
	for _, row := range rows {
		record := FoodRecord{
			User: user,
			Date: date,
			Meal: row.Meal,
		}
		if len(row.Values) > 0 {
			record.Food = row.Values[0]
			record.Nutrients = row.Values[1:]
		}
		records = append(records, record)
	}
	return records
}

type Options struct {
	// User is the analyzed user written into every record.
	User string
	// DateLayouts override DefaultDateLayouts when set.
	DateLayouts []string
}

type Extraction struct {
	Schema   Schema
	Sections []Section
	Records  []FoodRecord
	Skipped  []MalformedRowError
}

// Rows returns every record as its string tuple, ready to be serialized
// under Schema.
func (e Extraction) Rows() [][]string {
	rows := make([][]string, len(e.Records))
	for i, r := range e.Records {
		rows[i] = r.Fields()
	}
	return rows
}

// Extract runs the whole pipeline over a page. Structural problems (date
// heading/table count mismatch, unparseable headings, a missing header row)
// fail the extraction before any row is read.
func Extract(ctx context.Context, page Page, opts Options) (Extraction, error) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	sections, err := Sections(page, opts.DateLayouts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to segment page")
		return Extraction{}, err
	}

	schema := DefaultSchema
	if len(page.Tables) > 0 {
		schema, err = NormalizeSchema(page.Tables[0].Header)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to normalize header")
			return Extraction{}, err
		}
	}

	result := Extraction{
		Schema:   schema,
		Sections: sections,
	}
	for i, section := range sections {
		rows, skipped := ExtractSection(i, section.Rows, schema.Width())
		result.Records = append(result.Records, Assemble(opts.User, section.Date, rows)...)
		result.Skipped = append(result.Skipped, skipped...)
	}

	span.SetAttributes(
		attribute.Int("sections", len(sections)),
		attribute.Int("records", len(result.Records)),
		attribute.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
