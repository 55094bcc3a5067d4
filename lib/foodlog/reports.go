package foodlog

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"diary-export/lib/textutil"
	"diary-export/lib/timezone"
)

const (
	ReportDateLayout  = "1/2/2006"
	ReportMonthLayout = "2006 - 01 - January"
)

// Table is a rendered summary, every row has one cell per header column.
type Table struct {
	Header []string
	Rows   [][]string
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dayOfWeek(date time.Time) string {
	return fmt.Sprintf("%d - %s", timezone.ISOWeekday(date), date.Weekday())
}

type totals map[string]float64

func (t totals) add(e Entry) {
	for m, v := range e.Values {
		t[m] += v
	}
}

// DailyMacros reports the metric totals of every day in the log's range,
// overall and per meal. When tokens are given only foods whose name
// matches one of them are counted. Days without calories are left blank
// unless includeZero is set.
func (l Log) DailyMacros(tokens []string, includeZero bool) Table {
	meals := l.MealNames()

	header := []string{"date", "start of week", "month", "# of meals"}
	header = append(header, l.Metrics...)
	for _, meal := range meals {
		for _, m := range l.Metrics {
			header = append(header, meal+" "+m)
		}
	}

	type day struct {
		total totals
		meals map[string]totals
	}
	days := map[time.Time]*day{}
	for _, e := range l.Entries {
		if len(tokens) > 0 && !textutil.MatchName(e.Name(), tokens) {
			continue
		}
		d, ok := days[e.Date]
		if !ok {
			d = &day{total: totals{}, meals: map[string]totals{}}
			days[e.Date] = d
		}
		d.total.add(e)
		if d.meals[e.MealKey()] == nil {
			d.meals[e.MealKey()] = totals{}
		}
		d.meals[e.MealKey()].add(e)
	}

	var table Table
	table.Header = header
	if l.Start.IsZero() || l.End.IsZero() {
		return table
	}
	for date := l.Start; !date.After(l.End); date = date.AddDate(0, 0, 1) {
		d := days[date]
		if d == nil {
			d = &day{total: totals{}, meals: map[string]totals{}}
		}

		row := []string{
			date.Format(ReportDateLayout),
			timezone.StartOfWeek(date).Format(ReportDateLayout),
			date.Format(ReportMonthLayout),
			strconv.Itoa(len(d.meals)),
		}
		for _, m := range l.Metrics {
			row = append(row, formatNumber(d.total[m]))
		}
		for _, meal := range meals {
			for _, m := range l.Metrics {
				row = append(row, formatNumber(d.meals[meal][m]))
			}
		}

		if d.total["calories"] == 0 && !includeZero {
			for i := 2; i < len(row); i++ {
				row[i] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// UniqueFoods reports every distinct food name once, most frequently
// eaten first. Macros are the ones of the first serving seen, totals and
// percentages are over every serving in the log.
func (l Log) UniqueFoods() Table {
	meals := l.MealNames()

	header := []string{"name", "qty", "frequency"}
	for _, meal := range meals {
		header = append(header, meal+" frequency")
	}
	header = append(header, l.Metrics...)
	for _, m := range l.Metrics {
		header = append(header,
			"total "+m,
			"total "+m+" percent",
			"total "+m+" percent per serving",
		)
	}
	header = append(header, "protein to fat ratio")

	logTotals := totals{}
	for _, e := range l.Entries {
		logTotals.add(e)
	}

	type food struct {
		first     Entry
		frequency int
		meals     map[string]int
		total     totals
	}
	var order []string
	foods := map[string]*food{}
	for _, e := range l.Entries {
		name := e.Name()
		f, ok := foods[name]
		if !ok {
			f = &food{first: e, meals: map[string]int{}, total: totals{}}
			foods[name] = f
			order = append(order, name)
		}
		f.frequency++
		f.meals[e.MealKey()]++
		f.total.add(e)
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return foods[b].frequency - foods[a].frequency
	})

	table := Table{Header: header}
	for _, name := range order {
		f := foods[name]
		row := []string{name, f.first.Qty(), strconv.Itoa(f.frequency)}
		for _, meal := range meals {
			row = append(row, strconv.Itoa(f.meals[meal]))
		}
		for _, m := range l.Metrics {
			row = append(row, formatNumber(f.first.Value(m)))
		}
		for _, m := range l.Metrics {
			percent := f.total[m] * 100 / max(1, logTotals[m])
			row = append(row,
				formatNumber(f.total[m]),
				formatRatio(percent),
				formatRatio(percent/float64(f.frequency)),
			)
		}
		ratio, ok := f.first.ProteinToFatRatio()
		if ok {
			row = append(row, formatRatio(ratio))
		} else {
			row = append(row, "")
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// RawFoods lists every entry with its calendar context.
func (l Log) RawFoods() Table {
	header := []string{"name", "meal", "date", "start of week", "month", "day of week"}
	header = append(header, l.Metrics...)

	table := Table{Header: header}
	for _, e := range l.Entries {
		row := []string{
			e.Food,
			e.Meal,
			e.Date.Format(ReportDateLayout),
			timezone.StartOfWeek(e.Date).Format(ReportDateLayout),
			e.Date.Format(ReportMonthLayout),
			dayOfWeek(e.Date),
		}
		for _, m := range l.Metrics {
			v, ok := e.Values[m]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatNumber(v))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
