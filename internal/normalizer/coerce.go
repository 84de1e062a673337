package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"statfetch/internal/models"
)

// CoerceColumns returns a copy of the table with the named columns
// converted to the requested types. Values that fail to parse (or are
// empty) become null rather than aborting the table; demographic APIs
// routinely carry placeholder or redacted values. The operation is pure and
// idempotent.
func CoerceColumns(t *models.Table, types map[string]models.CellType) (*models.Table, error) {
	out := t.Clone()

	for name, typ := range types {
		idx := out.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}

		out.Columns[idx].Type = typ

		for r := range out.Rows {
			out.Rows[r][idx] = coerceCell(out.Rows[r][idx], typ)
		}
	}

	return out, nil
}

func coerceCell(c models.Cell, typ models.CellType) models.Cell {
	switch typ {
	case models.TypeNumber:
		switch c.Kind {
		case models.KindNumber:
			return c
		case models.KindString:
			s := strings.TrimSpace(c.Str)
			if s == "" {
				return models.NullCell()
			}

			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return models.NullCell()
			}

			return models.NumberCell(f)
		}

		return models.NullCell()

	case models.TypeString:
		switch c.Kind {
		case models.KindString:
			return c
		case models.KindNumber:
			return models.StringCell(strconv.FormatFloat(c.Num, 'f', -1, 64))
		}

		return models.NullCell()
	}

	return models.NullCell()
}
