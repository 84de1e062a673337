package formatter

import (
	"io"

	"statfetch/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderConsole writes the table to w as a bordered console table.
func RenderConsole(t *models.Table, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}

	tw.AppendHeader(header)

	for _, row := range t.Rows {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = cell.Text()
		}

		tw.AppendRow(cells)
	}

	tw.Render()
}
