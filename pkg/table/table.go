package table

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/haferml/hafer/pkg/errors"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Table stores rows of values under an ordered list of column names.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

// FromRows builds a table from positional rows. Every row must have one
// value per column.
func FromRows(columns []string, rows [][]any) (*Table, error) {
	t := New(columns...)
	if len(t.columns) != len(columns) {
		return nil, errors.New(errors.ErrTableShape, "duplicate column names")
	}
	for _, r := range rows {
		if err := t.AppendRow(r...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FromRecords builds a table from records. Columns default to the union of
// record keys, each record contributing its new keys in sorted order.
func FromRecords(records []Record, columns ...string) *Table {
	t := New(columns...)
	if len(columns) == 0 {
		for _, r := range records {
			keys := make([]string, 0, len(r))
			for k := range r {
				if _, ok := t.index[k]; !ok {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			for _, k := range keys {
				t.addColumn(k)
			}
		}
	}
	for _, r := range records {
		t.AppendRecord(r)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], nil)
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// AppendRow adds a positional row.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.columns) {
		return errors.Newf(errors.ErrTableShape, "row has %d values, table has %d columns",
			len(values), len(t.columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AppendRecord adds a row from a record. Unknown keys add new columns.
func (t *Table) AppendRecord(r Record) {
	keys := make([]string, 0, len(r))
	for k := range r {
		if _, ok := t.index[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.addColumn(k)
	}
	row := make([]any, len(t.columns))
	for k, v := range r {
		row[t.index[k]] = v
	}
	t.rows = append(t.rows, row)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.columns))
	copy(out, t.rows[i])
	return out
}

// Record returns row i keyed by column.
func (t *Table) Record(i int) Record {
	r := make(Record, len(t.columns))
	for j, c := range t.columns {
		r[c] = t.rows[i][j]
	}
	return r
}

// Records returns every row as a record.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// Value returns the cell at row i, column col.
func (t *Table) Value(i int, col string) (any, bool) {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i][j], true
}

// Set writes a cell. The column is added when missing.
func (t *Table) Set(i int, col string, v any) error {
	if i < 0 || i >= len(t.rows) {
		return errors.Newf(errors.ErrTableShape, "row %d out of range (%d rows)", i, len(t.rows))
	}
	t.addColumn(col)
	t.rows[i][t.index[col]] = v
	return nil
}

// Column returns a copy of the values of col.
func (t *Table) Column(col string) ([]any, bool) {
	j, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, true
}

// SetColumn replaces or adds a column. values must have one entry per row.
func (t *Table) SetColumn(col string, values []any) error {
	if len(values) != len(t.rows) {
		return errors.Newf(errors.ErrTableShape, "column %q has %d values, table has %d rows",
			col, len(values), len(t.rows))
	}
	t.addColumn(col)
	j := t.index[col]
	for i, v := range values {
		t.rows[i][j] = v
	}
	return nil
}

// Select returns a new table with only cols, in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for k, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, errors.Newf(errors.ErrNotFound, "column %q not found", c).
				WithDetail("columns", t.Columns())
		}
		idx[k] = j
	}
	out := New(cols...)
	for _, r := range t.rows {
		row := make([]any, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Drop removes columns in place. Unknown names are ignored.
func (t *Table) Drop(cols ...string) {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	var keep []int
	var names []string
	for j, c := range t.columns {
		if !drop[c] {
			keep = append(keep, j)
			names = append(names, c)
		}
	}
	for i, r := range t.rows {
		row := make([]any, len(keep))
		for k, j := range keep {
			row[k] = r[j]
		}
		t.rows[i] = row
	}
	t.columns = nil
	t.index = make(map[string]int, len(names))
	for _, c := range names {
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
}

// Rename changes a column name in place.
func (t *Table) Rename(from, to string) error {
	j, ok := t.index[from]
	if !ok {
		return errors.Newf(errors.ErrNotFound, "column %q not found", from)
	}
	if from == to {
		return nil
	}
	if _, exists := t.index[to]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "column %q already exists", to)
	}
	delete(t.index, from)
	t.index[to] = j
	t.columns[j] = to
	return nil
}

// Filter keeps the rows for which keep returns true, in place.
func (t *Table) Filter(keep func(i int, r Record) bool) {
	kept := t.rows[:0]
	for i := range t.rows {
		if keep(i, t.Record(i)) {
			kept = append(kept, t.rows[i])
		}
	}
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = kept
}

// Map replaces every value of col with fn(value), in place. The first error
// stops the walk and reports the row.
func (t *Table) Map(col string, fn func(v any) (any, error)) error {
	j, ok := t.index[col]
	if !ok {
		return errors.Newf(errors.ErrNotFound, "column %q not found", col)
	}
	for i, r := range t.rows {
		v, err := fn(r[j])
		if err != nil {
			return errors.Wrapf(err, errors.GetErrorCode(err), "column %q row %d", col, i).
				WithDetail("column", col).
				WithDetail("row", i)
		}
		r[j] = v
	}
	return nil
}

// Copy returns a table with its own rows. Cell values are shared.
func (t *Table) Copy() *Table {
	out := New(t.columns...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(r))
		copy(row, r)
		out.rows[i] = row
	}
	return out
}

// Equal compares columns, order and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for j := range t.columns {
		if t.columns[j] != o.columns[j] {
			return false
		}
	}
	for i := range t.rows {
		if !reflect.DeepEqual(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("table(%d rows x %d columns)", len(t.rows), len(t.columns))
}
