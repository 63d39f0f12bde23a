package definer

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/definer/dialect/sql"
)

// Result is the normalized outcome of Select. Rows is nil for an existence
// check (Select without columns) and Exists reports whether any row matched.
type Result struct {
	Rows   []map[string]any
	Exists bool
}

// Select runs SELECT over the current filter, ordering and limit and returns
// the matched rows. Columns outside an active column model are dropped.
//
// Without columns, Select runs an existence check: it selects NULL and the
// result only reports whether a row matched.
func (d *Definer) Select(ctx context.Context, columns ...string) (Result, error) {
	if err := d.ready(StmtSelect); err != nil {
		return Result{}, err
	}
	cols := d.model.filter(columns)
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(cols) == 0 {
		b.WriteString("NULL")
	} else {
		b.WriteString(quoteList(d.dialect, cols))
	}
	b.WriteString(" FROM ")
	b.WriteString(quote(d.dialect, d.table))
	d.writeWhere(&b)
	d.writeOrder(&b)
	d.writeLimit(&b)
	stmt := d.statement(StmtSelect, b.String(), slices.Clone(d.pred.Args), !d.pred.Empty())
	if len(cols) == 0 {
		ok, err := d.exists(ctx, stmt)
		return Result{Exists: ok}, err
	}
	rows, err := d.query(ctx, stmt)
	if err != nil {
		return Result{}, err
	}
	return Result{Rows: rows, Exists: len(rows) > 0}, nil
}

// Exists reports whether any row of the table matches the current filter.
func (d *Definer) Exists(ctx context.Context) (bool, error) {
	res, err := d.Select(ctx)
	return res.Exists, err
}

// Update sets the entity columns on every row matching the current filter.
// With an active column model, every entity column must belong to it.
// Boolean values are written as 0 or 1.
func (d *Definer) Update(ctx context.Context, entity Entity) (bool, error) {
	if err := d.ready(StmtUpdate); err != nil {
		return false, err
	}
	if entity == nil {
		return false, NewConfigError(string(StmtUpdate), "", ErrEmptyValues)
	}
	cols, vals := entity.columns()
	if len(cols) == 0 {
		return false, NewConfigError(string(StmtUpdate), "", ErrEmptyValues)
	}
	if err := d.model.validate(string(StmtUpdate), cols); err != nil {
		return false, err
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(quote(d.dialect, d.table))
	b.WriteString(" SET ")
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(d.dialect, c))
		b.WriteString(" = ?")
	}
	d.writeWhere(&b)
	args := append(coerceBools(vals), d.pred.Args...)
	return d.exec(ctx, d.statement(StmtUpdate, b.String(), args, !d.pred.Empty()))
}

// Insert inserts one row. A Row or Fields payload renders a column list and
// a Tuple does not. With an active column model, the payload must carry one
// value per model column, and named columns must belong to the model.
// Boolean values are written as 0 or 1.
func (d *Definer) Insert(ctx context.Context, values Values) (bool, error) {
	if err := d.ready(StmtInsert); err != nil {
		return false, err
	}
	if values == nil {
		return false, NewConfigError(string(StmtInsert), "", ErrEmptyValues)
	}
	cols, vals := values.columns()
	if len(vals) == 0 {
		return false, NewConfigError(string(StmtInsert), "", ErrEmptyValues)
	}
	if d.model != nil {
		if len(vals) != d.model.len() {
			return false, NewConfigError(string(StmtInsert), "", ErrColumnCount)
		}
		if err := d.model.validate(string(StmtInsert), cols); err != nil {
			return false, err
		}
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quote(d.dialect, d.table))
	if cols != nil {
		b.WriteString(" (")
		b.WriteString(quoteList(d.dialect, cols))
		b.WriteByte(')')
	}
	b.WriteString(" VALUES (")
	b.WriteString(placeholders(len(vals)))
	b.WriteByte(')')
	return d.exec(ctx, d.statement(StmtInsert, b.String(), coerceBools(vals), false))
}

// Delete deletes the rows matching conds. With an active column model, every
// condition column must belong to it. Given conditions replace the current
// filter; without conditions the current filter is used.
//
// A delete without any filter removes every row of the table. It is logged
// as a warning and can be refused with a policy.
func (d *Definer) Delete(ctx context.Context, conds ...Condition) (bool, error) {
	if d.table == "" {
		return false, NewConfigError(string(StmtDelete), "", ErrNoTable)
	}
	for _, c := range conds {
		if c == nil {
			continue
		}
		for _, t := range c.Terms() {
			if !d.model.has(t.Column) {
				return false, NewConfigError(string(StmtDelete), t.Column, ErrUnknownColumn)
			}
		}
	}
	if len(conds) > 0 {
		d.Where(conds...)
	}
	if err := d.ready(StmtDelete); err != nil {
		return false, err
	}
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(quote(d.dialect, d.table))
	d.writeWhere(&b)
	if d.pred.Empty() {
		d.logger.WarnContext(ctx, "definer: delete without filter", "table", d.table)
	}
	return d.exec(ctx, d.statement(StmtDelete, b.String(), slices.Clone(d.pred.Args), !d.pred.Empty()))
}

// Exec runs a raw SQL statement and returns its rows. params are bound
// positionally; a single []any parameter is used as the parameter list.
// The definer state is neither used nor changed.
func (d *Definer) Exec(ctx context.Context, query string, params ...any) ([]map[string]any, error) {
	return d.query(ctx, &Statement{Kind: StmtExec, SQL: query, Args: paramList(params)})
}

// ExecBool runs a raw SQL statement and reports its outcome: true for a
// statement without a result set that succeeded, otherwise whether any row
// was returned.
func (d *Definer) ExecBool(ctx context.Context, query string, params ...any) (bool, error) {
	stmt := &Statement{Kind: StmtExec, SQL: query, Args: paramList(params)}
	rows, err := d.open(ctx, stmt)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	set, err := sql.HasResultSet(rows)
	if err != nil {
		return false, d.driverError(stmt, err)
	}
	if !set {
		return true, nil
	}
	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, d.driverError(stmt, err)
	}
	return found, nil
}

// ready fails if no table is selected or a chained call recorded an error.
func (d *Definer) ready(kind StatementKind) error {
	if d.table == "" {
		return NewConfigError(string(kind), "", ErrNoTable)
	}
	return d.Err()
}

func (d *Definer) writeWhere(b *strings.Builder) {
	if d.pred.Empty() {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(d.pred.SQL)
}

func (d *Definer) writeOrder(b *strings.Builder) {
	if len(d.order) == 0 {
		return
	}
	b.WriteString(" ORDER BY ")
	for i, o := range d.order {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(d.dialect, o.Column))
		b.WriteByte(' ')
		b.WriteString(string(o.Direction))
	}
}

func (d *Definer) writeLimit(b *strings.Builder) {
	switch len(d.limit) {
	case 1:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(d.limit[0]))
	case 2:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(d.limit[1]))
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(d.limit[0]))
	}
}

func (d *Definer) statement(kind StatementKind, query string, args []any, filtered bool) *Statement {
	return &Statement{
		Kind:     kind,
		Table:    d.table,
		SQL:      rebind(d.dialect, query),
		Args:     args,
		Filtered: filtered,
	}
}

func (d *Definer) authorize(ctx context.Context, stmt *Statement) error {
	if d.policy == nil {
		return nil
	}
	return d.policy.EvalStatement(ctx, stmt)
}

func (d *Definer) driverError(stmt *Statement, err error) error {
	return &DriverError{Op: string(stmt.Kind), Query: stmt.SQL, Err: err}
}

// open authorizes stmt and sends it through the query path.
func (d *Definer) open(ctx context.Context, stmt *Statement) (*sql.Rows, error) {
	if err := d.authorize(ctx, stmt); err != nil {
		return nil, err
	}
	rows := &sql.Rows{}
	if err := d.drv.Query(ctx, stmt.SQL, stmt.Args, rows); err != nil {
		return nil, d.driverError(stmt, err)
	}
	return rows, nil
}

func (d *Definer) query(ctx context.Context, stmt *Statement) ([]map[string]any, error) {
	rows, err := d.open(ctx, stmt)
	if err != nil {
		return nil, err
	}
	maps, err := sql.ScanMaps(rows)
	if err != nil {
		return nil, d.driverError(stmt, err)
	}
	return maps, nil
}

func (d *Definer) exists(ctx context.Context, stmt *Statement) (bool, error) {
	rows, err := d.open(ctx, stmt)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, d.driverError(stmt, err)
	}
	return found, nil
}

// exec authorizes stmt and sends it through the exec path. A statement the
// driver executed without error is a successful mutation.
func (d *Definer) exec(ctx context.Context, stmt *Statement) (bool, error) {
	if err := d.authorize(ctx, stmt); err != nil {
		return false, err
	}
	var res sql.Result
	if err := d.drv.Exec(ctx, stmt.SQL, stmt.Args, &res); err != nil {
		return false, d.driverError(stmt, err)
	}
	return true, nil
}

// paramList returns the positional parameters of a raw statement.
func paramList(params []any) []any {
	if len(params) == 1 {
		if list, ok := params[0].([]any); ok {
			return list
		}
	}
	if params == nil {
		return []any{}
	}
	return params
}
