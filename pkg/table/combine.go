package table

import (
	"fmt"
	"strings"

	"github.com/haferml/hafer/pkg/errors"
)

// Concat stacks the rows of tables in order. The result has the union of
// their columns in first-seen order; cells a table does not have are nil.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.columns {
			out.addColumn(c)
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		pos := make([]int, len(t.columns))
		for j, c := range t.columns {
			pos[j] = out.index[c]
		}
		for _, r := range t.rows {
			row := make([]any, len(out.columns))
			for j, v := range r {
				row[pos[j]] = v
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// LeftJoin keeps every row of left and adds the columns of right from the
// first right row with the same values in on. Right columns that clash with
// left ones get a "_right" suffix.
func LeftJoin(left, right *Table, on ...string) (*Table, error) {
	if len(on) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "join needs at least one key column")
	}
	for _, c := range on {
		if !left.HasColumn(c) || !right.HasColumn(c) {
			return nil, errors.Newf(errors.ErrNotFound, "join column %q missing", c)
		}
	}

	isKey := make(map[string]bool, len(on))
	for _, c := range on {
		isKey[c] = true
	}

	out := left.Copy()
	var extra []string
	targets := make(map[string]string)
	for _, c := range right.columns {
		if isKey[c] {
			continue
		}
		name := c
		if out.HasColumn(name) {
			name = c + "_right"
		}
		targets[c] = name
		extra = append(extra, c)
		out.addColumn(name)
	}

	lookup := make(map[string]int, right.Len())
	for i := range right.rows {
		k := joinKey(right, i, on)
		if _, seen := lookup[k]; !seen {
			lookup[k] = i
		}
	}

	for i := range out.rows {
		ri, ok := lookup[joinKey(left, i, on)]
		if !ok {
			continue
		}
		for _, c := range extra {
			out.rows[i][out.index[targets[c]]] = right.rows[ri][right.index[c]]
		}
	}
	return out, nil
}

func joinKey(t *Table, i int, on []string) string {
	parts := make([]string, len(on))
	for k, c := range on {
		parts[k] = fmt.Sprintf("%T:%v", t.rows[i][t.index[c]], t.rows[i][t.index[c]])
	}
	return strings.Join(parts, "\x1f")
}
