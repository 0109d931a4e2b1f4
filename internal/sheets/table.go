package sheets

import (
	"context"
	"fmt"
	"strings"
)

// Table binds a sheet's header row to column positions. The header is read
// once when the table is opened; rows are re-read on every call.
type Table struct {
	backend Backend
	name    string
	header  []string
	columns map[string]int
}

// Row is one data row of a table.
type Row struct {
	// Number is the 1-based sheet row, valid only until the sheet changes.
	Number int

	values  []string
	columns map[string]int
}

// Get returns the cell under the named column, or "" when the row is short
// or the column is unknown.
func (r Row) Get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return r.values[idx]
}

// Values returns the row's cells keyed by column name.
func (r Row) Values() map[string]string {
	out := make(map[string]string, len(r.columns))
	for column := range r.columns {
		out[column] = r.Get(column)
	}
	return out
}

// OpenTable reads the header of the named sheet and checks that every
// required column is present.
func OpenTable(ctx context.Context, backend Backend, name string, required ...string) (*Table, error) {
	rows, err := backend.ReadAll(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, name)
	}

	header := make([]string, len(rows[0]))
	columns := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		column := strings.TrimSpace(cell)
		header[i] = column
		if column == "" {
			continue
		}
		if _, dup := columns[column]; !dup {
			columns[column] = i
		}
	}

	var missing []string
	for _, column := range required {
		if _, ok := columns[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: sheet %s lacks %s", ErrMissingColumn, name, strings.Join(missing, ", "))
	}

	return &Table{
		backend: backend,
		name:    name,
		header:  header,
		columns: columns,
	}, nil
}

// Name returns the sheet name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns the non-empty header cells in sheet order.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.columns))
	for i, column := range t.header {
		if column != "" && t.columns[column] == i {
			out = append(out, column)
		}
	}
	return out
}

// Has reports whether the header declares the column.
func (t *Table) Has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Rows reads every data row.
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	rows, err := t.backend.ReadAll(ctx, t.name)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]Row, 0, len(rows)-1)
	for i, values := range rows[1:] {
		out = append(out, Row{
			Number:  i + 2,
			values:  values,
			columns: t.columns,
		})
	}
	return out, nil
}

// FindRow returns the first row whose column equals value.
func (t *Table) FindRow(ctx context.Context, column, value string) (Row, error) {
	if !t.Has(column) {
		return Row{}, fmt.Errorf("%w: sheet %s lacks %s", ErrMissingColumn, t.name, column)
	}
	rows, err := t.Rows(ctx)
	if err != nil {
		return Row{}, err
	}
	for _, row := range rows {
		if row.Get(column) == value {
			return row, nil
		}
	}
	return Row{}, ErrRowNotFound
}

// UpdateCells writes the named cells of one row.
func (t *Table) UpdateCells(ctx context.Context, row int, values map[string]string) error {
	if row < 2 {
		return fmt.Errorf("update sheet %s: row %d is not a data row", t.name, row)
	}
	cells := make(map[int]string, len(values))
	for column, value := range values {
		idx, ok := t.columns[column]
		if !ok {
			return fmt.Errorf("%w: sheet %s lacks %s", ErrMissingColumn, t.name, column)
		}
		cells[idx] = value
	}
	return t.backend.UpdateCells(ctx, t.name, row, cells)
}

// Append adds a row laid out in header order. Header columns without a
// value are written empty; values for unknown columns are dropped.
func (t *Table) Append(ctx context.Context, values map[string]string) error {
	return t.backend.Append(ctx, t.name, t.layout(values))
}

// ReplaceRow overwrites every header cell of one row.
func (t *Table) ReplaceRow(ctx context.Context, row int, values map[string]string) error {
	full := make(map[string]string, len(t.columns))
	for column := range t.columns {
		full[column] = values[column]
	}
	return t.UpdateCells(ctx, row, full)
}

func (t *Table) layout(values map[string]string) []string {
	row := make([]string, len(t.header))
	for column, idx := range t.columns {
		row[idx] = values[column]
	}
	return row
}
