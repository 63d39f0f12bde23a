package definer

import (
	"database/sql/driver"
	"reflect"
	"slices"
	"strings"

	"github.com/syssam/definer/dialect"
	"github.com/syssam/definer/dialect/sql"
)

// Term is a single comparison of a column against a value.
type Term struct {
	Column string
	Op     Op
	Value  any
}

// Condition is one AND-group of a filter. The groups passed to Where are
// joined with OR.
type Condition interface {
	Terms() []Term
}

// Group is an AND-group whose terms are compiled in the order given.
type Group []Term

// Terms implements Condition.
func (g Group) Terms() []Term { return g }

// And returns an AND-group of the given terms.
func And(terms ...Term) Group { return terms }

// Ops maps operators to comparands for one column of a Cond.
type Ops map[Op]any

// Cond is an AND-group keyed by column. A value is either a scalar, compared
// for equality, or an Ops mapping. Columns are compiled in sorted order and
// the operators of an Ops mapping in identifier order.
//
//	definer.Cond{"status": "active", "age": definer.Ops{definer.OpGTE: 18}}
type Cond map[string]any

// Terms implements Condition.
func (c Cond) Terms() []Term {
	columns := make([]string, 0, len(c))
	for col := range c {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	terms := make([]Term, 0, len(c))
	for _, col := range columns {
		var ops Ops
		switch v := c[col].(type) {
		case Ops:
			ops = v
		case map[Op]any:
			ops = v
		default:
			terms = append(terms, Term{Column: col, Op: OpEquals, Value: v})
			continue
		}
		keys := make([]Op, 0, len(ops))
		for op := range ops {
			keys = append(keys, op)
		}
		slices.Sort(keys)
		for _, op := range keys {
			terms = append(terms, Term{Column: col, Op: op, Value: ops[op]})
		}
	}
	return terms
}

// EQ returns a "=" term. A nil value compiles to IS NULL.
func EQ(col string, v any) Term { return Term{Column: col, Op: OpEquals, Value: v} }

// NEQ returns a "<>" term. A nil value compiles to IS NOT NULL.
func NEQ(col string, v any) Term { return Term{Column: col, Op: OpNotEquals, Value: v} }

// GT returns a ">" term.
func GT(col string, v any) Term { return Term{Column: col, Op: OpGT, Value: v} }

// GTE returns a ">=" term.
func GTE(col string, v any) Term { return Term{Column: col, Op: OpGTE, Value: v} }

// LT returns a "<" term.
func LT(col string, v any) Term { return Term{Column: col, Op: OpLT, Value: v} }

// LTE returns a "<=" term.
func LTE(col string, v any) Term { return Term{Column: col, Op: OpLTE, Value: v} }

// Like returns a LIKE term.
func Like(col, pattern string) Term { return Term{Column: col, Op: OpLike, Value: pattern} }

// In returns an IN term binding one placeholder per value. A single slice
// argument is expanded, so In("id", ids) and In("id", 1, 2) are both lists.
func In(col string, vs ...any) Term {
	if len(vs) == 1 {
		if l, ok := list(vs[0]); ok {
			vs = l
		}
	}
	if vs == nil {
		vs = []any{}
	}
	return Term{Column: col, Op: OpIn, Value: vs}
}

// Between returns a BETWEEN term.
func Between(col string, lo, hi any) Term {
	return Term{Column: col, Op: OpBetween, Value: []any{lo, hi}}
}

// IsNull returns an IS NULL term.
func IsNull(col string) Term { return Term{Column: col, Op: OpEquals} }

// NotNull returns an IS NOT NULL term.
func NotNull(col string) Term { return Term{Column: col, Op: OpNotEquals} }

// Compare returns a term with an arbitrary operator of the operator table.
func Compare(col string, op Op, v any) Term { return Term{Column: col, Op: op, Value: v} }

// Predicate is a compiled filter: a SQL boolean expression and the values
// bound to its placeholders, in emission order.
type Predicate struct {
	SQL  string
	Args []any
}

// Empty reports whether the predicate has no condition. An empty predicate
// renders no WHERE clause at all.
func (p Predicate) Empty() bool { return p.SQL == "" }

// CompileWhere compiles conds the way Where does, for MySQL quoting and
// without a column model.
func CompileWhere(conds ...Condition) (Predicate, error) {
	return compileWhere(dialect.MySQL, nil, conds)
}

// compileWhere compiles AND-groups into a predicate. Columns outside an
// active model are dropped, and groups left without terms are dropped
// entirely.
func compileWhere(d string, model *columnModel, conds []Condition) (Predicate, error) {
	var (
		groups []string
		args   []any
	)
	for _, cond := range conds {
		if cond == nil {
			continue
		}
		var frags []string
		for _, t := range cond.Terms() {
			if !model.has(t.Column) {
				continue
			}
			frag, targs, err := compileTerm(d, t)
			if err != nil {
				return Predicate{}, err
			}
			frags = append(frags, frag)
			args = append(args, targs...)
		}
		if len(frags) == 0 {
			continue
		}
		groups = append(groups, "("+strings.Join(frags, " AND ")+")")
	}
	return Predicate{SQL: strings.Join(groups, " OR "), Args: args}, nil
}

// compileTerm renders one comparison and the values it binds. List
// comparands of IN and BETWEEN are checked before the NULL test, so a nil
// slice is an empty list and not a NULL.
func compileTerm(d string, t Term) (string, []any, error) {
	tok, ok := t.Op.Token()
	if !ok {
		return "", nil, &CompileError{Column: t.Column, Op: t.Op, Err: ErrUnknownOperator}
	}
	col := quote(d, t.Column)
	if t.Op == OpIn || t.Op == OpBetween {
		if vs, ok := list(t.Value); ok {
			return compileList(col, t, vs)
		}
	}
	if sql.KindOf(t.Value) == sql.KindNull {
		if t.Op == OpEquals {
			return col + " IS NULL", nil, nil
		}
		return col + " IS NOT NULL", nil, nil
	}
	switch t.Op {
	case OpIn:
		return compileList(col, t, []any{t.Value})
	case OpBetween:
		return "", nil, &CompileError{Column: t.Column, Op: t.Op, Err: ErrInvalidOperand}
	}
	return col + " " + tok + " ?", []any{t.Value}, nil
}

// compileList renders an IN or BETWEEN comparison over vs.
func compileList(col string, t Term, vs []any) (string, []any, error) {
	if t.Op == OpBetween {
		if len(vs) != 2 {
			return "", nil, &CompileError{Column: t.Column, Op: t.Op, Err: ErrInvalidOperand}
		}
		return col + " BETWEEN ? AND ?", vs, nil
	}
	if len(vs) == 0 {
		return "", nil, &CompileError{Column: t.Column, Op: t.Op, Err: ErrInvalidOperand}
	}
	return col + " IN (" + placeholders(len(vs)) + ")", vs, nil
}

// list expands a slice or array comparand, nil slices included. Byte slices
// and driver.Valuer types are single values.
func list(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case driver.Valuer:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = rv.Index(i).Interface()
	}
	return vs, true
}

// placeholders returns n comma separated placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
