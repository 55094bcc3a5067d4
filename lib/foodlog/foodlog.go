// Package foodlog summarizes an exported food diary: daily macro totals,
// the foods eaten most often and a flat list of every entry.
package foodlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"diary-export/lib/diary"
	"diary-export/lib/timezone"
)

// Metrics are the nutrient columns the summaries know about, in the order
// they are reported.
var Metrics = []string{
	"calories", "carbs", "fat", "protein", "sugar", "fiber", "sodium", "cholesterol",
}

// SplitNameQty splits a diary food text at its last comma into the food
// name and the quantity eaten, food names may contain commas themselves.
//
// "Eggs, scrambled, 2 large" -> ("Eggs, scrambled", "2 large")
func SplitNameQty(food string) (name string, qty string) {
	idx := strings.LastIndex(food, ",")
	if idx < 0 {
		return strings.TrimSpace(food), ""
	}
	return strings.TrimSpace(food[:idx]), strings.TrimSpace(food[idx+1:])
}

type Entry struct {
	User string
	Date time.Time
	Meal string
	Food string
	// absent (empty) cells have no key
	Values map[string]float64
}

func (e Entry) Name() string {
	name, _ := SplitNameQty(e.Food)
	return name
}

func (e Entry) Qty() string {
	_, qty := SplitNameQty(e.Food)
	return qty
}

// MealKey is the lower-cased meal name, meal names are user configurable
// and are compared case-insensitively.
func (e Entry) MealKey() string {
	return strings.ToLower(e.Meal)
}

func (e Entry) Value(metric string) float64 {
	return e.Values[metric]
}

// ProteinToFatRatio is protein / max(fat, 1), ok is false when either
// value is missing.
func (e Entry) ProteinToFatRatio() (float64, bool) {
	protein, hasProtein := e.Values["protein"]
	fat, hasFat := e.Values["fat"]
	if !hasProtein || !hasFat {
		return 0, false
	}
	return protein / max(fat, 1), true
}

type Log struct {
	Entries []Entry
	// Metrics holds the entries of the package level Metrics that the
	// export actually has columns for.
	Metrics []string
	Start   time.Time
	End     time.Time
}

var ErrMissingColumn = errors.New("missing column")

// Read parses a diary export.
func Read(r io.Reader) (Log, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Log{}, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return Log{}, err
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[diary.NormalizeHeaderCell(name)] = i
	}
	for _, required := range []string{diary.FieldDate, diary.FieldMeal, diary.FieldFood} {
		if _, ok := columns[required]; !ok {
			return Log{}, fmt.Errorf("%w %q", ErrMissingColumn, required)
		}
	}

	var log Log
	for _, m := range Metrics {
		if _, ok := columns[m]; ok {
			log.Metrics = append(log.Metrics, m)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Log{}, err
		}

		date, err := timezone.ParseDate(cell(record, diary.FieldDate))
		if err != nil {
			return Log{}, fmt.Errorf("line %d: %w", line, err)
		}
		entry := Entry{
			User:   cell(record, diary.FieldUser),
			Date:   date,
			Meal:   cell(record, diary.FieldMeal),
			Food:   cell(record, diary.FieldFood),
			Values: map[string]float64{},
		}
		for _, m := range log.Metrics {
			text := cell(record, m)
			if text == "" {
				continue
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return Log{}, fmt.Errorf("line %d, column %q: %w", line, m, err)
			}
			entry.Values[m] = value
		}

		if log.Start.IsZero() || date.Before(log.Start) {
			log.Start = date
		}
		if log.End.IsZero() || date.After(log.End) {
			log.End = date
		}
		log.Entries = append(log.Entries, entry)
	}
	return log, nil
}

// Between narrows the log to [start, end], a zero bound keeps the log's
// own bound.
func (l Log) Between(start, end time.Time) Log {
	if !start.IsZero() {
		l.Start = timezone.Date(start)
	}
	if !end.IsZero() {
		l.End = timezone.Date(end)
	}
	entries := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.Date.Before(l.Start) || e.Date.After(l.End) {
			continue
		}
		entries = append(entries, e)
	}
	l.Entries = entries
	return l
}

// MealNames returns the sorted, lower-cased names of every meal in the log.
func (l Log) MealNames() []string {
	var names []string
	for _, e := range l.Entries {
		if !slices.Contains(names, e.MealKey()) {
			names = append(names, e.MealKey())
		}
	}
	slices.Sort(names)
	return names
}
