// Package output renders guardctl results as indented JSON or aligned
// text tables.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects a rendering.
type Format string

const (
	// FormatJSON prints indented JSON.
	FormatJSON Format = "json"
	// FormatText prints human-oriented text.
	FormatText Format = "text"
)

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Raw writes a raw JSON payload re-indented for reading.
func Raw(w io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// Not JSON after all; print as-is.
		_, werr := fmt.Fprintln(w, string(raw))
		return werr
	}
	return JSON(w, v)
}

// Table is a minimal column-aligned table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table with columns padded to their widest cell.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) error {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		_, err := fmt.Fprintln(w, b.String())
		return err
	}

	if err := writeRow(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}
