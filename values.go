package definer

import (
	"slices"

	"github.com/syssam/definer/dialect/sql"
)

// Values is a write payload: a Row or Fields (named columns) or a Tuple
// (positional, one value per table column).
type Values interface {
	// columns returns the payload columns, or nil for a positional payload,
	// and the values in the same order.
	columns() ([]string, []any)
}

// Entity is a named write payload accepted by Update.
type Entity interface {
	Values
	entity()
}

// Row is a named payload. Its columns are written in sorted order.
type Row map[string]any

func (r Row) columns() ([]string, []any) {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = r[c]
	}
	return cols, vals
}

func (Row) entity() {}

// Field is one column and value of a Fields payload.
type Field struct {
	Column string
	Value  any
}

// F returns a Field.
func F(column string, value any) Field { return Field{Column: column, Value: value} }

// Fields is a named payload written in the order given.
type Fields []Field

func (fs Fields) columns() ([]string, []any) {
	cols := make([]string, len(fs))
	vals := make([]any, len(fs))
	for i, f := range fs {
		cols[i], vals[i] = f.Column, f.Value
	}
	return cols, vals
}

func (Fields) entity() {}

// Tuple is a positional payload. Inserting a Tuple renders no column list.
type Tuple []any

func (t Tuple) columns() ([]string, []any) {
	return nil, slices.Clone(t)
}

// coerceBools rewrites boolean values to 0/1 integers in place.
func coerceBools(vals []any) []any {
	for i, v := range vals {
		if sql.KindOf(v) == sql.KindBool {
			vals[i] = sql.BoolInt(v)
		}
	}
	return vals
}
