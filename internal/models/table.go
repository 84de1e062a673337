// Package models defines the table, cell, and page structures shared across the toolchain.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CellType identifies the declared scalar type of a column.
type CellType int

// Supported column types.
const (
	TypeString CellType = iota
	TypeNumber
)

// String returns the type name used in configuration and table files.
func (t CellType) String() string {
	if t == TypeNumber {
		return "number"
	}

	return "string"
}

// ParseCellType converts a type name into a CellType.
func ParseCellType(s string) (CellType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "number":
		return TypeNumber, nil
	}

	return TypeString, fmt.Errorf("unknown column type %q", s)
}

// Column is one entry of a table's ordered schema.
type Column struct {
	Name string
	Type CellType
}

// CellKind identifies what a cell actually holds. A column typed as number
// can still hold null cells where coercion failed.
type CellKind int

// Cell kinds.
const (
	KindNull CellKind = iota
	KindString
	KindNumber
)

// Cell is one typed scalar value in a row.
type Cell struct {
	Str  string
	Num  float64
	Kind CellKind
}

// StringCell returns a string-valued cell.
func StringCell(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// NumberCell returns a number-valued cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Num: f}
}

// NullCell returns a null cell.
func NullCell() Cell {
	return Cell{Kind: KindNull}
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// Value returns the cell content as nil, string, or float64.
func (c Cell) Value() any {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return c.Num
	}

	return nil
}

// Text renders the cell for display. Null cells render empty, numbers in
// their shortest exact form.
func (c Cell) Text() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}

	return ""
}

// Row is an ordered sequence of cells positionally aligned with the table's
// column schema.
type Row []Cell

// Table is a normalized table: a column schema decided once, and rows whose
// cells align positionally with that schema.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates an empty table with the given column schema.
func NewTable(columns []Column) *Table {
	return &Table{
		Columns: columns,
		Rows:    nil,
	}
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}

	return -1
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}

	return names
}

// AppendRow adds a row. The caller is responsible for positional alignment
// with the column schema.
func (t *Table) AppendRow(row Row) {
	t.Rows = append(t.Rows, row)
}

// Get returns the cell at the given row for the named column.
func (t *Table) Get(row int, column string) (Cell, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Cell{}, false
	}

	return t.Rows[row][idx], true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	columns := make([]Column, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make(Row, len(row))
		copy(rows[i], row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// tableJSON is the on-disk table file format: explicit schema plus rows as
// column-name to value mappings.
type tableJSON struct {
	Columns []columnJSON     `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type columnJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON encodes the table for file output.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Columns: make([]columnJSON, len(t.Columns)),
		Rows:    make([]map[string]any, len(t.Rows)),
	}

	for i, col := range t.Columns {
		out.Columns[i] = columnJSON{Name: col.Name, Type: col.Type.String()}
	}

	for i, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			m[col.Name] = row[j].Value()
		}

		out.Rows[i] = m
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a table file written by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	columns := make([]Column, len(in.Columns))

	for i, col := range in.Columns {
		typ, err := ParseCellType(col.Type)
		if err != nil {
			return fmt.Errorf("column %q: %w", col.Name, err)
		}

		columns[i] = Column{Name: col.Name, Type: typ}
	}

	rows := make([]Row, len(in.Rows))

	for i, m := range in.Rows {
		row := make(Row, len(columns))

		for j, col := range columns {
			switch v := m[col.Name].(type) {
			case nil:
				row[j] = NullCell()
			case string:
				row[j] = StringCell(v)
			case float64:
				row[j] = NumberCell(v)
			default:
				return fmt.Errorf("row %d column %q: unsupported value %T", i, col.Name, v)
			}
		}

		rows[i] = row
	}

	t.Columns = columns
	t.Rows = rows

	return nil
}
