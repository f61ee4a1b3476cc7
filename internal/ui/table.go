package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column defines a table column with a header label and display width.
type Column struct {
	Header string
	Width  int
}

// RenderTable renders rows as a fixed-width table with column headers.
// Widths are measured in terminal cells, so wide (CJK) text lines up.
func RenderTable(columns []Column, rows [][]string) string {
	var b strings.Builder

	for i, col := range columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(HeaderStyle.Render(pad(col.Header, col.Width)))
	}
	b.WriteString("\n")

	for i, col := range columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(DimStyle.Render(strings.Repeat("─", col.Width)))
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				b.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			b.WriteString(pad(val, col.Width))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}
