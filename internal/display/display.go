// Package display renders annotations as aligned columns for the terminal.
package display

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/roach88/annovate/internal/store"
)

// DefaultPadding is the number of blank cells between columns.
const DefaultPadding = 2

// Options controls Render.
type Options struct {
	ShowContext bool // print the context column
	ShowAll     bool // include overwritten entries instead of only the newest per key
	Padding     int  // blank cells between columns; DefaultPadding when zero
}

// Columns holds the width, in terminal cells, of each column including padding.
type Columns struct {
	Key     int
	Value   int
	Context int
}

// Measure computes column widths for c. Every line of a multi-line value counts.
func Measure(c store.Container, padding int) Columns {
	var cols Columns
	for _, a := range c {
		cols.Key = max(cols.Key, Width(a.Key))
		cols.Context = max(cols.Context, Width(a.Context))
		for _, line := range a.Lines() {
			cols.Value = max(cols.Value, Width(line))
		}
	}
	cols.Key += padding
	cols.Value += padding
	cols.Context += padding
	return cols
}

// Render writes one row per annotation: key, first value line and, with
// ShowContext, the context. Further value lines follow on their own rows,
// indented to the value column.
func Render(w io.Writer, c store.Container, opts Options) error {
	if !opts.ShowAll {
		c = c.Current()
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	cols := Measure(c, padding)

	bw := bufio.NewWriter(w)
	for _, a := range c {
		lines := a.Lines()

		row := Pad(a.Key, cols.Key) + Pad(lines[0], cols.Value)
		if opts.ShowContext {
			row += a.Context
		}
		writeRow(bw, row)

		for _, line := range lines[1:] {
			writeRow(bw, strings.Repeat(" ", cols.Key)+line)
		}
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, row string) {
	w.WriteString(strings.TrimRightFunc(row, unicode.IsSpace))
	w.WriteByte('\n')
}

// Pad right-pads s with spaces to n terminal cells.
func Pad(s string, n int) string {
	if gap := n - Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Width returns how many terminal cells s occupies. East Asian wide and
// fullwidth runes take two cells, combining marks none.
func Width(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Me, r):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
