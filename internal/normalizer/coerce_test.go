package normalizer

import (
	"errors"
	"reflect"
	"testing"

	"statfetch/internal/models"
)

func stringTable(columns []string, rows [][]string) *models.Table {
	cols := make([]models.Column, len(columns))
	for i, name := range columns {
		cols[i] = models.Column{Name: name, Type: models.TypeString}
	}

	table := models.NewTable(cols)

	for _, row := range rows {
		cells := make(models.Row, len(row))
		for i, v := range row {
			cells[i] = models.StringCell(v)
		}

		table.AppendRow(cells)
	}

	return table
}

func TestCoerceColumns(t *testing.T) {
	table := stringTable([]string{"state", "pop"}, [][]string{
		{"Alabama", "4903185"},
		{"Alaska", "731545"},
	})

	coerced, err := CoerceColumns(table, map[string]models.CellType{"pop": models.TypeNumber})
	if err != nil {
		t.Fatalf("CoerceColumns returned unexpected error: %v", err)
	}

	idx := coerced.ColumnIndex("pop")
	if coerced.Columns[idx].Type != models.TypeNumber {
		t.Errorf("Column type = %v, want number", coerced.Columns[idx].Type)
	}

	if coerced.Rows[0][idx].Num != 4903185 {
		t.Errorf("Coerced value = %v, want 4903185", coerced.Rows[0][idx].Num)
	}

	// Untouched column stays a string.
	if coerced.Rows[0][0].Kind != models.KindString {
		t.Error("Uncoerced column changed kind")
	}
}

func TestCoerceColumns_BadValuesBecomeNull(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Non-numeric text", value: "redacted"},
		{name: "Empty string", value: ""},
		{name: "Whitespace only", value: "   "},
		{name: "Placeholder dash", value: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := stringTable([]string{"v"}, [][]string{{tt.value}})

			coerced, err := CoerceColumns(table, map[string]models.CellType{"v": models.TypeNumber})
			if err != nil {
				t.Fatalf("CoerceColumns returned unexpected error: %v", err)
			}

			if len(coerced.Rows) != 1 {
				t.Fatalf("Row count changed: %d", len(coerced.Rows))
			}

			if !coerced.Rows[0][0].IsNull() {
				t.Errorf("Cell = %+v, want null", coerced.Rows[0][0])
			}
		})
	}
}

func TestCoerceColumns_Idempotent(t *testing.T) {
	table := stringTable([]string{"a", "b"}, [][]string{
		{"1.5", "x"},
		{"bad", "y"},
		{"", "z"},
	})

	types := map[string]models.CellType{"a": models.TypeNumber}

	once, err := CoerceColumns(table, types)
	if err != nil {
		t.Fatalf("First CoerceColumns returned unexpected error: %v", err)
	}

	twice, err := CoerceColumns(once, types)
	if err != nil {
		t.Fatalf("Second CoerceColumns returned unexpected error: %v", err)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Coercion is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestCoerceColumns_UnknownColumn(t *testing.T) {
	table := stringTable([]string{"a"}, [][]string{{"1"}})

	_, err := CoerceColumns(table, map[string]models.CellType{"missing": models.TypeNumber})
	if err == nil {
		t.Fatal("CoerceColumns expected error for unknown column")
	}

	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("CoerceColumns error = %v, want ErrUnknownColumn", err)
	}
}

func TestCoerceColumns_BackToString(t *testing.T) {
	table := stringTable([]string{"v"}, [][]string{{"42"}})

	num, err := CoerceColumns(table, map[string]models.CellType{"v": models.TypeNumber})
	if err != nil {
		t.Fatalf("CoerceColumns returned unexpected error: %v", err)
	}

	str, err := CoerceColumns(num, map[string]models.CellType{"v": models.TypeString})
	if err != nil {
		t.Fatalf("CoerceColumns returned unexpected error: %v", err)
	}

	cell := str.Rows[0][0]
	if cell.Kind != models.KindString || cell.Str != "42" {
		t.Errorf("Cell = %+v, want string 42", cell)
	}
}
