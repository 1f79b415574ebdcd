// Package tablewriter renders validation reports as plain text tables.
package tablewriter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Writer collects rows and renders them as a bordered table. Cells may carry
// ANSI colors; widths are measured in terminal columns.
type Writer struct {
	out      io.Writer
	headers  []string
	rows     [][]string
	widths   []int
	maxWidth int
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the number of terminal columns s occupies.
func displayWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// NewWriter creates a new table writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// SetMaxWidth caps the width of every column. Longer cells are truncated
// with an ellipsis. Zero means no limit.
func (t *Writer) SetMaxWidth(width int) {
	t.maxWidth = width
}

// SetHeader sets the table headers
func (t *Writer) SetHeader(headers ...string) {
	t.headers = headers
	t.updateWidths(headers)
}

// Append adds a row. Rows with more cells than the header are cut to fit.
func (t *Writer) Append(row ...string) {
	if len(t.headers) > 0 && len(row) > len(t.headers) {
		row = row[:len(t.headers)]
	}
	t.rows = append(t.rows, row)
	t.updateWidths(row)
}

// Len returns the number of rows appended.
func (t *Writer) Len() int {
	return len(t.rows)
}

func (t *Writer) updateWidths(row []string) {
	for i, cell := range row {
		if i >= len(t.widths) {
			t.widths = append(t.widths, 0)
		}
		if w := t.clamp(displayWidth(cell)); w > t.widths[i] {
			t.widths[i] = w
		}
	}
}

func (t *Writer) clamp(width int) int {
	if t.maxWidth > 0 && width > t.maxWidth {
		return t.maxWidth
	}
	return width
}

// Render writes the table. Nothing is written for an empty table.
func (t *Writer) Render() error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}
	var b strings.Builder
	t.writeBorder(&b)
	if len(t.headers) > 0 {
		t.writeRow(&b, t.headers)
		t.writeBorder(&b)
	}
	for _, row := range t.rows {
		t.writeRow(&b, row)
	}
	t.writeBorder(&b)
	_, err := io.WriteString(t.out, b.String())
	return err
}

func (t *Writer) writeBorder(b *strings.Builder) {
	b.WriteString("+")
	for _, width := range t.widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
}

func (t *Writer) writeRow(b *strings.Builder, row []string) {
	b.WriteString("|")
	for i, width := range t.widths {
		cell := ""
		if i < len(row) {
			cell = t.fit(row[i], width)
		}
		fmt.Fprintf(b, " %s%s |", cell, strings.Repeat(" ", width-displayWidth(cell)))
	}
	b.WriteString("\n")
}

// fit truncates cell to width columns. Colored cells that are too wide lose
// their color.
func (t *Writer) fit(cell string, width int) string {
	if displayWidth(cell) <= width {
		return cell
	}
	return runewidth.Truncate(stripANSI(cell), width, "…")
}
