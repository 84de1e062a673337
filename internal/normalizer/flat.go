package normalizer

import (
	"fmt"

	"statfetch/internal/models"
)

// NormalizeFlat converts a flat tabular payload (an array of arrays whose
// first row is the column-name header) into a table. All columns are typed
// as strings; numeric coercion is a separate, explicit step so callers
// choose which columns are numeric.
func NormalizeFlat(payload any) (*models.Table, error) {
	rows, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %T", ErrNotTabular, payload)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: payload has no header row", ErrNotTabular)
	}

	header, ok := rows[0].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: header row is not an array", ErrNotTabular)
	}

	columns := make([]models.Column, len(header))

	for i, h := range header {
		name, ok := h.(string)
		if !ok {
			return nil, fmt.Errorf("%w: header entry %d is not a string", ErrNotTabular, i)
		}

		columns[i] = models.Column{Name: name, Type: models.TypeString}
	}

	table := models.NewTable(columns)

	// Data-row indices are zero-based and exclude the header.
	for i, raw := range rows[1:] {
		values, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is not an array", ErrMalformedPayload, i)
		}

		if len(values) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d",
				ErrMalformedPayload, i, len(values), len(columns))
		}

		row := make(models.Row, len(values))

		for j, v := range values {
			cell, err := scalarCell(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %s",
					ErrMalformedPayload, i, columns[j].Name, err)
			}

			row[j] = cell
		}

		table.AppendRow(row)
	}

	return table, nil
}

// scalarCell converts a decoded JSON value into a cell. Arrays and objects
// are not scalars and are rejected.
func scalarCell(v any) (models.Cell, error) {
	switch val := v.(type) {
	case nil:
		return models.NullCell(), nil
	case string:
		return models.StringCell(val), nil
	case float64:
		return models.NumberCell(val), nil
	}

	return models.Cell{}, fmt.Errorf("value %v (%T) is not a scalar", v, v)
}
