package definer

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/syssam/definer/dialect"
)

// Definer holds the state of one logical query: the target table, an
// optional column model, the compiled filter, ordering and limit. It is
// configured through chainable methods and consumed by the executor methods
// (Select, Insert, Update, Delete).
//
// A Definer is owned by one caller at a time and is not safe for concurrent
// use. Use Clone to hand an isolated copy of the current state to another
// goroutine.
type Definer struct {
	drv     dialect.Driver
	dialect string
	policy  Policy
	logger  *slog.Logger

	table    string
	model    *columnModel
	modelErr error
	pred     Predicate
	whereErr error
	order    []Order
	orderErr error
	limit    []int
	limitErr error
}

// Option configures a Definer.
type Option func(*Definer)

// WithPolicy sets the policy evaluated before every statement is sent.
func WithPolicy(p Policy) Option {
	return func(d *Definer) {
		d.policy = p
	}
}

// WithLogger sets the logger used for caller hazards such as unfiltered
// deletes. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Definer) {
		d.logger = l
	}
}

// New returns a Definer that executes statements through drv.
func New(drv dialect.Driver, opts ...Option) *Definer {
	d := &Definer{
		drv:     drv,
		dialect: drv.Dialect(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// For selects the target table and starts a fresh query context: the
// column model, filter, ordering and limit are cleared.
func (d *Definer) For(table string) *Definer {
	d.table = table
	d.model, d.modelErr = nil, nil
	d.pred, d.whereErr = Predicate{}, nil
	d.order, d.orderErr = nil, nil
	d.limit, d.limitErr = nil, nil
	return d
}

// Model sets the column model of the current table context. Calling Model
// without columns clears it. Filters silently drop columns outside the
// model, while writes referencing them fail.
func (d *Definer) Model(columns ...string) *Definer {
	if len(columns) == 0 {
		d.model, d.modelErr = nil, nil
		return d
	}
	m, err := newColumnModel(columns)
	if err != nil {
		d.modelErr = err
		return d
	}
	d.model, d.modelErr = m, nil
	return d
}

// Where compiles and stores the filter. Each condition is an AND-group and
// the groups are joined with OR. Calling Where without conditions clears the
// filter.
//
//	d.Where(definer.Cond{"a": 1}, definer.Cond{"b": 2}) // (`a` = ?) OR (`b` = ?)
func (d *Definer) Where(conds ...Condition) *Definer {
	d.pred, d.whereErr = compileWhere(d.dialect, d.model, conds)
	return d
}

// OrderBy sets the ordering. Calling OrderBy without arguments clears it.
// Columns outside an active column model are dropped.
func (d *Definer) OrderBy(orders ...Order) *Definer {
	d.order, d.orderErr = nil, nil
	for _, o := range orders {
		if !o.Direction.valid() {
			d.order, d.orderErr = nil, NewConfigError("order", o.Column, ErrInvalidOrder)
			return d
		}
		if d.model.has(o.Column) {
			d.order = append(d.order, o)
		}
	}
	return d
}

// Limit sets the row cap. Limit(n) caps the result to n rows and
// Limit(offset, n) skips offset rows first. Calling Limit without
// arguments clears it.
func (d *Definer) Limit(n ...int) *Definer {
	d.limit, d.limitErr = nil, nil
	if len(n) > 2 {
		d.limitErr = NewConfigError("limit", "", ErrInvalidLimit)
		return d
	}
	for _, v := range n {
		if v < 0 {
			d.limitErr = NewConfigError("limit", "", ErrInvalidLimit)
			return d
		}
	}
	d.limit = slices.Clone(n)
	return d
}

// Table returns the target table.
func (d *Definer) Table() string { return d.table }

// Columns returns the column model, or nil if none is set.
func (d *Definer) Columns() []string {
	if d.model == nil {
		return nil
	}
	return slices.Clone(d.model.names)
}

// Predicate returns the compiled filter.
func (d *Definer) Predicate() Predicate {
	return Predicate{SQL: d.pred.SQL, Args: slices.Clone(d.pred.Args)}
}

// Err returns the configuration or compilation errors recorded by the
// chained calls, if any. Executor methods fail with the same error.
func (d *Definer) Err() error {
	return errors.Join(d.modelErr, d.whereErr, d.orderErr, d.limitErr)
}

// Clone returns a copy of the definer holding the same state.
func (d *Definer) Clone() *Definer {
	c := *d
	if d.model != nil {
		m, _ := newColumnModel(d.model.names)
		c.model = m
	}
	c.pred = d.Predicate()
	c.order = slices.Clone(d.order)
	c.limit = slices.Clone(d.limit)
	return &c
}

// Direction is an ordering direction token.
type Direction string

// Ordering directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

func (dir Direction) valid() bool { return dir == Asc || dir == Desc }

// ParseDirection parses "asc" or "desc", ignoring case.
func ParseDirection(s string) (Direction, error) {
	dir := Direction(upper(s))
	if !dir.valid() {
		return "", NewConfigError("order", s, ErrInvalidOrder)
	}
	return dir, nil
}

// Order is one column of the ordering.
type Order struct {
	Column    string
	Direction Direction
}

// OrderAsc returns an ascending ordering on column.
func OrderAsc(column string) Order { return Order{Column: column, Direction: Asc} }

// OrderDesc returns a descending ordering on column.
func OrderDesc(column string) Order { return Order{Column: column, Direction: Desc} }
