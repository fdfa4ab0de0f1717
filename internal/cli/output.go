package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// ellipsis marks a truncated cell.
const ellipsis = "..."

var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled turns ANSI colors on or off for Green, Red and Yellow.
// The default is on only when stdout is a terminal.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

// Green marks completed records and success messages.
func Green(s string) string { return paint(colorGreen, s) }

// Red marks errors.
func Red(s string) string { return paint(colorRed, s) }

// Yellow marks totals and warnings.
func Yellow(s string) string { return paint(colorYellow, s) }

// Table lays out rows in columns padded to the widest visible cell.
// Rows may have different lengths and lines carry no trailing spaces.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth caps the visible width of column col; longer cells end in "...".
// A width of zero or less lifts the cap.
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if maxWidth <= 0 {
		delete(t.maxWidths, col)
		return
	}
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if limit, ok := t.maxWidths[i]; ok && width > limit {
			width = limit
		}
		t.colWidths[i] = max(t.colWidths[i], width)
	}
	t.rows = append(t.rows, cols)
}

// Render writes one line per row, with cells two spaces apart.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, col := range row {
			if limit, ok := t.maxWidths[i]; ok {
				col = Truncate(col, limit)
			}
			if i < len(t.colWidths)-1 {
				col += strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
			}
			cells[i] = col
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// String is Render into a string, without the final newline.
func (t *Table) String() string {
	var b strings.Builder
	t.Render(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

// Truncate shortens s to at most maxWidth visible characters, ending in "..."
// when there is room for it. Color codes are kept, followed by a reset so a cut
// color does not leak into the next cell.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	suffix := ellipsis
	if maxWidth < len(ellipsis) {
		suffix = ""
	}
	keep := maxWidth - len(suffix)

	var b strings.Builder
	visible := 0
	inEscape, colored := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, colored = true, true
		case inEscape:
			inEscape = r != 'm'
		case visible == keep:
			continue
		default:
			visible++
		}
		b.WriteRune(r)
	}

	b.WriteString(suffix)
	if colored {
		b.WriteString(colorReset)
	}
	return b.String()
}

// visibleWidth counts the runes of s outside ANSI color sequences.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			width++
		}
	}
	return width
}
