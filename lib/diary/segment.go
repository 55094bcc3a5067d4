package diary

import (
	"errors"
	"time"

	"diary-export/lib/htmlutil"
)

// DefaultDateLayouts are tried in order against every date heading.
var DefaultDateLayouts = []string{
	"January 2, 2006",
	"Monday, January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// SegmentDates parses the date headings of a page, in document order, as
// calendar dates at midnight UTC.
func SegmentDates(headings []string, layouts []string) ([]time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	dates := make([]time.Time, len(headings))
	for i, heading := range headings {
		date, err := parseHeading(htmlutil.CleanText(heading), layouts)
		if err != nil {
			return nil, &HeadingError{Index: i, Text: heading, Err: err}
		}
		dates[i] = date
	}
	return dates, nil
}

func parseHeading(text string, layouts []string) (time.Time, error) {
	var errs []error
	for _, layout := range layouts {
		date, err := time.ParseInLocation(layout, text, time.UTC)
		if err == nil {
			return date, nil
		}
		errs = append(errs, err)
	}
	return time.Time{}, errors.Join(errs...)
}

// Sections pairs each parsed date with the rows of the table at the same
// position, failing when the counts differ.
func Sections(page Page, layouts []string) ([]Section, error) {
	if len(page.Headings) != len(page.Tables) {
		return nil, &SegmentMismatchError{
			Headings: len(page.Headings),
			Tables:   len(page.Tables),
		}
	}

	dates, err := SegmentDates(page.Headings, layouts)
	if err != nil {
		return nil, err
	}

	sections := make([]Section, len(dates))
	for i, date := range dates {
		sections[i] = Section{
			Date: date,
			Rows: page.Tables[i].Rows,
		}
	}
	return sections, nil
}
