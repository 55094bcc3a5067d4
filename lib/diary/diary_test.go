package diary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var standardHeader = []string{
	"Foods", "Calories", "Carbs", "Fat", "Protein", "Sugars", "Fiber", "Cholest", "Sodium",
}

func TestNormalizeSchema(t *testing.T) {
	schema, err := NormalizeSchema(standardHeader)
	require.Nil(t, err)

	expect := Schema{
		"user", "date", "meal", "food", "calories", "carbs", "fat",
		"protein", "sugar", "fiber", "cholesterol", "sodium",
	}
	require.Equal(t, expect, schema)
	require.True(t, schema.Equal(DefaultSchema))
	require.Equal(t, 9, schema.Width())
}

func TestNormalizeHeaderCellAliases(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "Sugars", expect: "sugar"},
		{input: " SUGARS\t", expect: "sugar"},
		{input: "Cholest", expect: "cholesterol"},
		{input: "\ncholest  ", expect: "cholesterol"},
		{input: "FOODS", expect: "food"},
		{input: " foods ", expect: "food"},
		{input: "Potass.", expect: "potass."},
		{input: " Vit C ", expect: "vit c"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, NormalizeHeaderCell(test.input), test.input)
	}
}

func TestNormalizeSchemaMissingHeader(t *testing.T) {
	_, err := NormalizeSchema(nil)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestSegmentDates(t *testing.T) {
	dates, err := SegmentDates(
		[]string{"January 5, 2024", " Saturday, January 6, 2024\n", "2024-01-07"},
		nil,
	)
	require.Nil(t, err)
	require.Equal(t, []time.Time{
		time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC),
	}, dates)

	_, err = SegmentDates([]string{"January 5, 2024", "yesterday"}, nil)
	var headingErr *HeadingError
	require.True(t, errors.As(err, &headingErr))
	require.Equal(t, 1, headingErr.Index)
	require.Equal(t, "yesterday", headingErr.Text)
}

func TestSegmentDatesCustomLayout(t *testing.T) {
	dates, err := SegmentDates([]string{"05.01.2024"}, []string{"02.01.2006"})
	require.Nil(t, err)
	require.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestSectionsMismatch(t *testing.T) {
	testCases := []Page{
		{
			Headings: []string{"January 5, 2024", "January 6, 2024"},
			Tables:   []Table{{Header: standardHeader}},
		},
		{
			Headings: []string{"January 5, 2024"},
			Tables:   []Table{{Header: standardHeader}, {Header: standardHeader}},
		},
		{
			Tables: []Table{{Header: standardHeader}},
		},
	}

	for _, page := range testCases {
		_, err := Extract(context.Background(), page, Options{User: "alice"})
		var mismatch *SegmentMismatchError
		require.True(t, errors.As(err, &mismatch), err)
		require.Equal(t, len(page.Headings), mismatch.Headings)
		require.Equal(t, len(page.Tables), mismatch.Tables)
	}
}

func TestExtractSectionMealContext(t *testing.T) {
	rows := []Row{
		DataRow("Coffee", "2"),
		MarkerRow(" Breakfast "),
		DataRow("Eggs", "140"),
		DataRow("Toast", "80"),
		MarkerRow("Lunch"),
		DataRow("Salad", "220"),
	}

	extracted, skipped := ExtractSection(0, rows, 2)
	require.Empty(t, skipped)

	expect := []ExtractedRow{
		{Meal: "", Values: []string{"Coffee", "2"}},
		{Meal: "Breakfast", Values: []string{"Eggs", "140"}},
		{Meal: "Breakfast", Values: []string{"Toast", "80"}},
		{Meal: "Lunch", Values: []string{"Salad", "220"}},
	}
	diff := cmp.Diff(expect, extracted)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractSectionCellPositions(t *testing.T) {
	rows := []Row{
		// trailing cells past the schema width are ignored
		DataRow("Oats (1 cup), 80g", "1,250 kcal", "-3", "0.4g", "x", "y"),
		// missing trailing cells become empty values
		DataRow("Water", "0"),
		DataRow("lonely cell"),
		DataRow(),
	}

	extracted, skipped := ExtractSection(3, rows, 4)
	require.Equal(t, []ExtractedRow{
		{Values: []string{"Oats (1 cup), 80g", "1250", "3", "0.4"}},
		{Values: []string{"Water", "0", "", ""}},
	}, extracted)
	require.Equal(t, []MalformedRowError{
		{Section: 3, Row: 2, Cells: 1},
		{Section: 3, Row: 3, Cells: 0},
	}, skipped)
}

func TestExtractScenario(t *testing.T) {
	page := Page{
		Headings: []string{"January 5, 2024"},
		Tables: []Table{
			{
				Header: standardHeader,
				Rows: []Row{
					MarkerRow("Breakfast"),
					DataRow("Banana, medium", "105", "27", "0.4g", "1.3", "14", "3.1", "0mg", "1mg"),
				},
			},
		},
	}

	result, err := Extract(context.Background(), page, Options{User: "alice"})
	require.Nil(t, err)
	require.Len(t, result.Records, 1)

	require.Equal(t, []string{
		"alice", "2024-01-05", "Breakfast", "Banana, medium",
		"105", "27", "0.4", "1.3", "14", "3.1", "0", "1",
	}, result.Records[0].Fields())

	value, ok := result.Schema.Value(result.Records[0], "cholesterol")
	require.True(t, ok)
	require.Equal(t, "0", value)
	_, ok = result.Schema.Value(result.Records[0], "potassium")
	require.False(t, ok)
}

func TestExtractMultipleSections(t *testing.T) {
	page := Page{
		Headings: []string{"January 5, 2024", "January 6, 2024"},
		Tables: []Table{
			{
				Header: []string{"Foods", "Calories"},
				Rows: []Row{
					MarkerRow("Dinner"),
					DataRow("Pasta", "600"),
				},
			},
			{
				// only the header of the first table is used
				Rows: []Row{
					DataRow("Apple", "95"),
					MarkerRow("Snacks"),
					DataRow("Almonds", "160"),
				},
			},
		},
	}

	result, err := Extract(context.Background(), page, Options{User: "bob"})
	require.Nil(t, err)
	require.Equal(t, Schema{"user", "date", "meal", "food", "calories"}, result.Schema)

	day1 := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)
	expect := []FoodRecord{
		{User: "bob", Date: day1, Meal: "Dinner", Food: "Pasta", Nutrients: []string{"600"}},
		// meal context does not leak across sections
		{User: "bob", Date: day2, Meal: "", Food: "Apple", Nutrients: []string{"95"}},
		{User: "bob", Date: day2, Meal: "Snacks", Food: "Almonds", Nutrients: []string{"160"}},
	}
	diff := cmp.Diff(expect, result.Records)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractNoSections(t *testing.T) {
	result, err := Extract(context.Background(), Page{}, Options{User: "alice"})
	require.Nil(t, err)
	require.Empty(t, result.Records)
	require.Equal(t, DefaultSchema, result.Schema)
	require.Empty(t, result.Rows())
}

func TestExtractMissingHeader(t *testing.T) {
	page := Page{
		Headings: []string{"January 5, 2024"},
		Tables:   []Table{{Rows: []Row{DataRow("Apple", "95")}}},
	}
	_, err := Extract(context.Background(), page, Options{User: "alice"})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestExtractSkipsMalformedRows(t *testing.T) {
	page := Page{
		Headings: []string{"January 5, 2024"},
		Tables: []Table{
			{
				Header: []string{"Foods", "Calories"},
				Rows: []Row{
					DataRow("Apple", "95"),
					DataRow("broken"),
					DataRow("Pear", "100"),
				},
			},
		},
	}

	result, err := Extract(context.Background(), page, Options{User: "alice"})
	require.Nil(t, err)
	require.Len(t, result.Records, 2)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, 1, result.Skipped[0].Row)
}
