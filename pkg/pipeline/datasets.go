package pipeline

import (
	"github.com/haferml/hafer/pkg/table"
)

// Shape tells how a Datasets value was built.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeNamed
	ShapeList
	ShapeSingle
)

func (s Shape) String() string {
	switch s {
	case ShapeNamed:
		return "named"
	case ShapeList:
		return "list"
	case ShapeSingle:
		return "single"
	default:
		return "none"
	}
}

// NamedTable pairs a dataset name with its table.
type NamedTable struct {
	Name  string
	Table *table.Table
}

// Entry is shorthand for NamedTable{name, t}.
func Entry(name string, t *table.Table) NamedTable {
	return NamedTable{Name: name, Table: t}
}

// Datasets is the pipeline input: an ordered mapping of named tables, a list
// of tables, or a single table. The zero value holds nothing.
type Datasets struct {
	shape  Shape
	named  []NamedTable
	tables []*table.Table
}

// Named builds an ordered mapping of tables. Iteration follows argument order.
func Named(entries ...NamedTable) Datasets {
	ds := Datasets{shape: ShapeNamed, named: entries}
	for _, e := range entries {
		ds.tables = append(ds.tables, e.Table)
	}
	return ds
}

// List builds an ordered list of tables.
func List(tables ...*table.Table) Datasets {
	return Datasets{shape: ShapeList, tables: tables}
}

// Single wraps one table.
func Single(t *table.Table) Datasets {
	return Datasets{shape: ShapeSingle, tables: []*table.Table{t}}
}

func (d Datasets) Shape() Shape { return d.shape }

func (d Datasets) Len() int { return len(d.tables) }

// Tables returns the tables in order.
func (d Datasets) Tables() []*table.Table {
	out := make([]*table.Table, len(d.tables))
	copy(out, d.tables)
	return out
}

// Names returns the dataset names of a named input, in order.
func (d Datasets) Names() []string {
	out := make([]string, len(d.named))
	for i, e := range d.named {
		out[i] = e.Name
	}
	return out
}

// Get returns the table stored under name.
func (d Datasets) Get(name string) (*table.Table, bool) {
	for _, e := range d.named {
		if e.Name == name {
			return e.Table, true
		}
	}
	return nil, false
}
