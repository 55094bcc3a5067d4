package diary

import (
	"slices"

	"diary-export/lib/textutil"
)

const (
	FieldUser = "user"
	FieldDate = "date"
	FieldMeal = "meal"
	FieldFood = "food"
)

// FixedFields lead every schema, they never appear in the source header.
var FixedFields = []string{FieldUser, FieldDate, FieldMeal}

var headerAliases = map[string]string{
	"sugars":  "sugar",
	"cholest": "cholesterol",
	"foods":   FieldFood,
}

// Schema is the ordered list of canonical column names of an export.
type Schema []string

// DefaultSchema is the schema produced by the standard printable diary
// header.
var DefaultSchema = Schema{
	FieldUser, FieldDate, FieldMeal, FieldFood,
	"calories", "carbs", "fat", "protein", "sugar", "fiber", "cholesterol", "sodium",
}

// SourceFields are the fields that come from the source table, food first.
func (s Schema) SourceFields() []string {
	if len(s) <= len(FixedFields) {
		return nil
	}
	return s[len(FixedFields):]
}

// Width is the number of source cell positions a data row is read from.
func (s Schema) Width() int {
	return len(s.SourceFields())
}

func (s Schema) Index(field string) int {
	return slices.Index(s, field)
}

func (s Schema) Equal(other Schema) bool {
	return slices.Equal(s, other)
}

// NormalizeHeaderCell lower-cases and trims a header label and resolves
// known aliases.
func NormalizeHeaderCell(cell string) string {
	name := textutil.NormalizeHeader(cell)
	if canonical, ok := headerAliases[name]; ok {
		return canonical
	}
	return name
}

// NormalizeSchema builds the schema of a page from the header row of its
// first food table.
func NormalizeSchema(header []string) (Schema, error) {
	if len(header) == 0 {
		return nil, &SchemaError{Reason: "no header row found"}
	}
	schema := make(Schema, 0, len(FixedFields)+len(header))
	schema = append(schema, FixedFields...)
	for _, cell := range header {
		schema = append(schema, NormalizeHeaderCell(cell))
	}
	return schema, nil
}
