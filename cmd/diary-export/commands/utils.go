package commands

import (
	"os"
	"strconv"
	"time"

	"diary-export/lib/exporter"
	"diary-export/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// parseDateFlag parses a YYYY-MM-DD flag value, an empty value is the zero
// time.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return timezone.ParseDate(value)
}

func renderResult(result exporter.Result) {
	t := NewTable()
	t.SetTitle("export " + result.RunId)
	t.AppendHeader(table.Row{"sections", "records", "skipped rows", "output"})
	t.AppendRow(table.Row{
		strconv.Itoa(result.Sections),
		strconv.Itoa(result.Records),
		strconv.Itoa(result.Skipped),
		result.Output,
	})
	t.Render()
}
