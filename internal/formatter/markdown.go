// Package formatter renders normalized tables for display and file output.
package formatter

import (
	"strings"

	"statfetch/internal/models"
	"statfetch/pkg/utils"

	"github.com/mattn/go-runewidth"
)

// RenderMarkdown renders a table as a markdown table with columns padded to
// their display width, so wide runes in locale-specific labels line up.
func RenderMarkdown(t *models.Table) string {
	colCount := len(t.Columns)
	if colCount == 0 {
		return ""
	}

	// Collect cell text up front so widths and rendering agree.
	header := make([]string, colCount)
	for i, col := range t.Columns {
		header[i] = utils.SanitizeCell(col.Name)
	}

	body := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		body[r] = make([]string, colCount)
		for c := range t.Columns {
			body[r][c] = utils.SanitizeCell(row[c].Text())
		}
	}

	// Column widths use display width, not byte length.
	widths := make([]int, colCount)

	for i, cell := range header {
		widths[i] = runewidth.StringWidth(cell)
	}

	for _, row := range body {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Separator rows need at least three dashes.
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(cell)

			if padding := widths[i] - runewidth.StringWidth(cell); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(header)

	sb.WriteString("|")

	for i := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", widths[i]))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range body {
		writeRow(row)
	}

	return sb.String()
}
