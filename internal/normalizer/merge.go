package normalizer

import (
	"fmt"
	"sort"

	"statfetch/internal/models"
)

// MergeOrder is the caller-supplied page ordering rule for merging. Page
// order is configuration, not something inferred from page numbers: the
// reference pagination scenario delivers later pages that belong earlier in
// the final table.
type MergeOrder int

// Merge orders.
const (
	OrderGiven MergeOrder = iota
	OrderReversed
)

// ParseMergeOrder converts an order name into a MergeOrder.
func ParseMergeOrder(s string) (MergeOrder, error) {
	switch s {
	case "", "given":
		return OrderGiven, nil
	case "reversed":
		return OrderReversed, nil
	}

	return OrderGiven, fmt.Errorf("unknown page order %q", s)
}

// MergePages concatenates table fragments (one per page) in the specified
// order. It does not deduplicate; use MergePagesDedup to reapply
// group-based deduplication across the merged result. All fragments must
// share the same column schema.
func MergePages(tables []*models.Table, order MergeOrder) (*models.Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoFragments
	}

	ordered := tables
	if order == OrderReversed {
		ordered = make([]*models.Table, len(tables))
		for i, t := range tables {
			ordered[len(tables)-1-i] = t
		}
	}

	out := models.NewTable(append([]models.Column(nil), ordered[0].Columns...))

	for i, frag := range ordered {
		if !sameSchema(out.Columns, frag.Columns) {
			return nil, fmt.Errorf("%w: fragment %d", ErrSchemaMismatch, i)
		}

		for _, row := range frag.Rows {
			out.AppendRow(append(models.Row(nil), row...))
		}
	}

	return out, nil
}

// MergePagesDedup merges fragments and then collapses rows sharing the same
// group-key tuple per the dedup rule. Surviving rows keep the position of
// the group's first appearance; under LastSeen the latest row's values win.
func MergePagesDedup(tables []*models.Table, order MergeOrder, groupKeys []string, rule DedupRule) (*models.Table, error) {
	merged, err := MergePages(tables, order)
	if err != nil {
		return nil, err
	}

	indices, err := columnIndices(merged, groupKeys)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	out := models.NewTable(merged.Columns)

	for _, row := range merged.Rows {
		cells := make([]models.Cell, len(indices))
		for i, idx := range indices {
			cells[i] = row[idx]
		}

		key := groupKey(cells)

		idx, dup := seen[key]
		if !dup {
			seen[key] = len(out.Rows)
			out.AppendRow(row)

			continue
		}

		if rule == LastSeen {
			out.Rows[idx] = row
		}
	}

	return out, nil
}

// SortRows orders rows in place by the named columns, applied left to
// right. Cells compare null first, then numbers, then strings. Sorting by
// the group keys is the recommended way to make paginated output
// deterministic.
func SortRows(t *models.Table, columns []string) error {
	indices, err := columnIndices(t, columns)
	if err != nil {
		return err
	}

	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, idx := range indices {
			if c := compareCells(t.Rows[a][idx], t.Rows[b][idx]); c != 0 {
				return c < 0
			}
		}

		return false
	})

	return nil
}

func columnIndices(t *models.Table, columns []string) ([]int, error) {
	indices := make([]int, len(columns))

	for i, name := range columns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}

		indices[i] = idx
	}

	return indices, nil
}

func compareCells(a, b models.Cell) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}

	switch a.Kind {
	case models.KindNumber:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}

		return 0
	case models.KindString:
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		}

		return 0
	}

	return 0
}

func sameSchema(a, b []models.Column) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
