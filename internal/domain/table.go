package domain

import (
	"math"
	"strconv"
	"strings"
)

// Table is the read-only tabular form of one catalog response. Columns are
// addressed by name; an absent column is distinguishable from a column of
// zero-valued data. A nil *Table behaves like an empty one.
type Table struct {
	columns map[string][]string
	rows    int
}

// NewTable builds a Table from named columns. Short columns are padded with
// empty cells so every column reports the same row count.
func NewTable(columns map[string][]string) *Table {
	rows := 0
	for _, col := range columns {
		if len(col) > rows {
			rows = len(col)
		}
	}
	padded := make(map[string][]string, len(columns))
	for name, col := range columns {
		if len(col) < rows {
			grown := make([]string, rows)
			copy(grown, col)
			col = grown
		}
		padded[name] = col
	}
	return &Table{columns: padded, rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// HasColumn reports whether the response carried the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.columns[name]
	return ok
}

// Column returns the raw cells of a column, or ok=false when absent.
func (t *Table) Column(name string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	col, ok := t.columns[name]
	return col, ok
}

// Cell returns one raw cell, or ok=false when the column is absent or the
// row is out of range.
func (t *Table) Cell(name string, row int) (string, bool) {
	col, ok := t.Column(name)
	if !ok || row < 0 || row >= len(col) {
		return "", false
	}
	return col[row], true
}

// Float parses one cell as a float64. Absent columns, out-of-range rows,
// null markers, and malformed cells all decode to NaN.
func (t *Table) Float(name string, row int) float64 {
	cell, ok := t.Cell(name, row)
	if !ok {
		return math.NaN()
	}
	return parseTableFloat(cell)
}

// Scalar returns the first-row cell of a column, for single-row responses.
func (t *Table) Scalar(name string) (string, bool) {
	return t.Cell(name, 0)
}

// ScalarFloat parses the first-row cell of a column, NaN when unusable.
func (t *Table) ScalarFloat(name string) float64 {
	return t.Float(name, 0)
}

// parseTableFloat decodes a catalog cell. Gator marks missing values with
// "null" or "-"; VOTable nulls arrive as empty cells.
func parseTableFloat(cell string) float64 {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "", "null", "-", "--":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
