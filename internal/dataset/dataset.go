// Package dataset holds the in-memory table that flows through a sentiment run and
// the CSV codec that loads and persists it.
package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Load when the input path does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrDuplicateColumn is returned when a header names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Dataset is an ordered table: unique column names and rows of cells.
// Row order and column order never change; new columns are only appended.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty dataset with the given header.
func New(columns []string) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, dup := ds.index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		ds.index[c] = len(ds.columns)
		ds.columns = append(ds.columns, c)
	}
	return ds, nil
}

// AppendRow adds a row. The row must have one cell per column.
func (d *Dataset) AppendRow(row []Cell) error {
	if len(row) != len(d.columns) {
		return fmt.Errorf("row has %d cells, want %d", len(row), len(d.columns))
	}
	d.rows = append(d.rows, row)
	return nil
}

// Columns returns a copy of the header.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Width is the number of columns.
func (d *Dataset) Width() int { return len(d.columns) }

// Has reports whether the column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the cells of one column in row order.
func (d *Dataset) Column(name string) ([]Cell, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Cell, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out, true
}

// Row returns the cells of row r.
func (d *Dataset) Row(r int) []Cell {
	return append([]Cell(nil), d.rows[r]...)
}

// SetColumn writes values into the named column. An existing column is overwritten
// in place; otherwise the column is appended after every existing one.
func (d *Dataset) SetColumn(name string, values []Cell) error {
	if len(values) != len(d.rows) {
		return fmt.Errorf("column %q has %d values, want %d", name, len(values), len(d.rows))
	}
	if i, ok := d.index[name]; ok {
		for r := range d.rows {
			d.rows[r][i] = values[r]
		}
		return nil
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, name)
	for r := range d.rows {
		d.rows[r] = append(d.rows[r], values[r])
	}
	return nil
}
