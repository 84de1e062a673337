package normalizer

import (
	"fmt"
	"strings"

	"statfetch/internal/models"
)

// DedupRule selects which record wins when multiple records share the same
// group-key values.
type DedupRule int

// Dedup rules.
const (
	FirstSeen DedupRule = iota
	LastSeen
)

// String returns the rule name used in configuration.
func (d DedupRule) String() string {
	if d == LastSeen {
		return "last"
	}

	return "first"
}

// ParseDedupRule converts a rule name into a DedupRule.
func ParseDedupRule(s string) (DedupRule, error) {
	switch s {
	case "first":
		return FirstSeen, nil
	case "last":
		return LastSeen, nil
	}

	return FirstSeen, fmt.Errorf("unknown dedup rule %q", s)
}

// NormalizePaginated flattens nested records from one or more pages into a
// table whose columns are the group keys plus the value field. Fields not
// requested (such as a decimal-precision indicator) are discarded. Records
// sharing the same group-key tuple collapse to one row per the dedup rule;
// paginated APIs can return overlapping records for the same logical entity
// across pages.
//
// Group keys and the value field may be dotted paths into nested mappings.
// Output rows appear in first-seen group order unless the caller sorts.
func NormalizePaginated(pages []models.Page, groupKeys []string, valueField string, rule DedupRule) (*models.Table, error) {
	fields := make([]string, 0, len(groupKeys)+1)
	fields = append(fields, groupKeys...)
	fields = append(fields, valueField)

	columns := make([]models.Column, len(fields))
	for i, f := range fields {
		columns[i] = models.Column{Name: f, Type: models.TypeString}
	}

	table := models.NewTable(columns)
	seen := make(map[string]int)

	for p, page := range pages {
		for r, record := range page.Records {
			row := make(models.Row, len(fields))

			for i, field := range fields {
				v, ok := record.Field(field)
				if !ok {
					return nil, fmt.Errorf("%w: %q (page %d, record %d)",
						ErrMissingField, field, p, r)
				}

				cell, err := scalarCell(v)
				if err != nil {
					return nil, fmt.Errorf("%w: field %q (page %d, record %d): %s",
						ErrMalformedPayload, field, p, r, err)
				}

				row[i] = cell
			}

			key := groupKey(row[:len(groupKeys)])

			idx, dup := seen[key]
			if !dup {
				seen[key] = len(table.Rows)
				table.AppendRow(row)

				continue
			}

			if rule == LastSeen {
				table.Rows[idx] = row
			}
		}
	}

	return table, nil
}

// groupKey encodes the group-key cells of a row into a map key. The unit
// separator keeps adjacent values from colliding.
func groupKey(cells []models.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%d:%s", c.Kind, c.Text())
	}

	return strings.Join(parts, "\x1f")
}
