package timezone

import "time"

// Location is the zone used to decide what "today" is. diary dates
// themselves are always anchored at midnight UTC.
var Location = time.Local

func Now() time.Time {
	return time.Now().In(Location)
}

// Date anchors the calendar day of t (as observed in t's own location) at
// midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in Location, anchored at midnight UTC.
func Today() time.Time {
	return Date(Now())
}

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(text string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, text, time.UTC)
}

// StartOfWeek returns the monday on or before the given date.
func StartOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// ISOWeekday numbers monday as 1 through sunday as 7.
func ISOWeekday(date time.Time) int {
	if date.Weekday() == time.Sunday {
		return 7
	}
	return int(date.Weekday())
}
