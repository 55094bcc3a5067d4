// Package csvout writes comma separated text.
//
// Quoting is deliberately narrower than RFC 4180: a field is quoted only
// when it contains a comma or a double quote. Embedded newlines are written
// as is and will break the row structure.
package csvout

import (
	"bufio"
	"io"
	"strings"
)

// EscapeField quotes a field and doubles its inner quotes if and only if
// the field contains a comma or a double quote.
func EscapeField(field string) string {
	if !strings.ContainsAny(field, `,"`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// FormatLine escapes and joins the fields of one line, without the line
// terminator.
func FormatLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits a single line.
func (w *Writer) Write(fields []string) error {
	_, err := w.w.WriteString(FormatLine(fields))
	if err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Encode writes the header line followed by one line per row and flushes
// its buffer into w. It never closes w.
func Encode(w io.Writer, header []string, rows [][]string) error {
	out := NewWriter(w)
	err := out.Write(header)
	if err != nil {
		return err
	}
	for _, row := range rows {
		err = out.Write(row)
		if err != nil {
			return err
		}
	}
	return out.Flush()
}
