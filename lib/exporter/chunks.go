package exporter

import (
	"time"

	"diary-export/lib/timezone"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) String() string {
	return r.From.Format(timezone.DateLayout) + ".." + r.To.Format(timezone.DateLayout)
}

// Chunks splits [start, end] into consecutive windows of at most one year.
// Windows do not overlap, each one starts the day after the previous one
// ends.
func Chunks(start, end time.Time) []DateRange {
	start = timezone.Date(start)
	end = timezone.Date(end)

	var ranges []DateRange
	for from := start; !from.After(end); {
		to := from.AddDate(1, 0, -1)
		if to.After(end) {
			to = end
		}
		ranges = append(ranges, DateRange{From: from, To: to})
		from = to.AddDate(0, 0, 1)
	}
	return ranges
}
