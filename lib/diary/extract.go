package diary

import (
	"strings"

	"diary-export/lib/textutil"
)

// MinDataCells is the least number of cells a data row needs: the food
// text and at least one nutrient.
const MinDataCells = 2

// ExtractedRow is a data row reduced to its source-order field values,
// together with the meal that was active when the row was read.
type ExtractedRow struct {
	Meal   string
	Values []string
}

// ExtractSection classifies the rows of one section in document order.
// Marker rows advance the meal, data rows are read from `width` cell
// positions: the first one as free text and the rest with everything but
// digits and decimal points stripped. Rows with fewer than MinDataCells
// cells are skipped and reported.
func ExtractSection(section int, rows []Row, width int) ([]ExtractedRow, []MalformedRowError) {
	var meal MealContext
	var extracted []ExtractedRow
	var skipped []MalformedRowError

	for i, row := range rows {
		if row.Kind() == RowMarker {
			meal.Advance(row)
			continue
		}

		cells := row.Cells()
		if len(cells) < MinDataCells {
			skipped = append(skipped, MalformedRowError{
				Section: section,
				Row:     i,
				Cells:   len(cells),
			})
			continue
		}

		extracted = append(extracted, ExtractedRow{
			Meal:   meal.Meal(),
			Values: extractCells(cells, width),
		})
	}

	return extracted, skipped
}

func extractCells(cells []string, width int) []string {
	values := make([]string, width)
	for i := 0; i < width && i < len(cells); i++ {
		if i == 0 {
			values[i] = strings.TrimSpace(cells[i])
			continue
		}
		values[i] = textutil.KeepNumeric(cells[i])
	}
	return values
}
