package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"statfetch/internal/models"
)

// WriteCSV writes the table to w as CSV with a header row. Null cells write
// as empty fields.
func WriteCSV(t *models.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, row := range t.Rows {
		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = cell.Text()
		}

		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
