package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/definer"
	"github.com/syssam/definer/privacy"
)

// query holds the flags shaping the current table context.
type query struct {
	model []string
	where string
	order []string
	limit []int
}

func (q *query) bind(cmd *cobra.Command, order bool) {
	cmd.Flags().StringSliceVarP(&q.model, "model", "m", nil, "column model: restrict filters and writes to these columns")
	cmd.Flags().StringVarP(&q.where, "where", "w", "", `filter, e.g. "age >= 18 AND name = 'bob' OR deleted_at IS NULL"`)
	if order {
		cmd.Flags().StringSliceVar(&q.order, "order", nil, "ordering columns, e.g. name,created_at:desc")
		cmd.Flags().IntSliceVarP(&q.limit, "limit", "n", nil, "row cap, or offset,count")
	}
}

// apply configures d for table and returns the recorded errors.
func (q *query) apply(d *definer.Definer, table string) error {
	d.For(table).Model(q.model...)
	if q.where != "" {
		groups, err := definer.ParseFilter(q.where)
		if err != nil {
			return err
		}
		d.Where(definer.Conditions(groups)...)
	}
	orders, err := parseOrders(q.order)
	if err != nil {
		return err
	}
	d.OrderBy(orders...).Limit(q.limit...)
	return d.Err()
}

func newSelectCmd(a *app) *cobra.Command {
	q := &query{}
	cmd := &cobra.Command{
		Use:   "select TABLE [COLUMN...]",
		Short: "Select rows, or check for a matching row when no column is given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if err := q.apply(s.Definer, args[0]); err != nil {
					return nil, err
				}
				res, err := s.Select(ctx, args[1:]...)
				if err != nil {
					return nil, err
				}
				if res.Rows == nil {
					return res.Exists, nil
				}
				return table{columns: args[1:], rows: res.Rows}, nil
			})
		},
	}
	q.bind(cmd, true)
	return cmd
}

func newExistsCmd(a *app) *cobra.Command {
	q := &query{}
	cmd := &cobra.Command{
		Use:   "exists TABLE",
		Short: "Report whether any row matches the filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if err := q.apply(s.Definer, args[0]); err != nil {
					return nil, err
				}
				return s.Exists(ctx)
			})
		},
	}
	q.bind(cmd, false)
	return cmd
}

func newInsertCmd(a *app) *cobra.Command {
	var (
		q      = &query{}
		set    []string
		values []string
	)
	cmd := &cobra.Command{
		Use:   "insert TABLE",
		Short: "Insert one row",
		Example: `  definer insert users --set name=bob --set active=true
  definer insert users --values 7,bob,true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var row definer.Values
			switch {
			case len(set) > 0 && len(values) > 0:
				return fmt.Errorf("--set and --values are mutually exclusive")
			case len(values) > 0:
				row = parseTuple(values)
			default:
				fields, err := parseFields(set)
				if err != nil {
					return err
				}
				row = fields
			}
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if err := q.apply(s.Definer, args[0]); err != nil {
					return nil, err
				}
				return s.Insert(ctx, row)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "column=value pair, repeatable")
	cmd.Flags().StringSliceVar(&values, "values", nil, "positional values, one per table column")
	cmd.Flags().StringSliceVarP(&q.model, "model", "m", nil, "column model: the columns the row must match")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		q   = &query{}
		set []string
		all bool
	)
	cmd := &cobra.Command{
		Use:     "update TABLE",
		Short:   "Update the rows matching the filter",
		Example: `  definer update users --set active=false --where "last_login < '2020-01-01'"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(set)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if err := q.apply(s.Definer, args[0]); err != nil {
					return nil, err
				}
				return s.Update(allowAll(ctx, all), fields)
			})
		},
	}
	q.bind(cmd, false)
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "column=value pair, repeatable")
	cmd.Flags().BoolVar(&all, "all", false, "allow updating every row when no filter is given")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var (
		q   = &query{}
		all bool
	)
	cmd := &cobra.Command{
		Use:   "delete TABLE",
		Short: "Delete the rows matching the filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if err := q.apply(s.Definer, args[0]); err != nil {
					return nil, err
				}
				return s.Delete(allowAll(ctx, all))
			})
		},
	}
	q.bind(cmd, false)
	cmd.Flags().BoolVar(&all, "all", false, "allow deleting every row when no filter is given")
	return cmd
}

func newExecCmd(a *app) *cobra.Command {
	var asBool bool
	cmd := &cobra.Command{
		Use:     "exec SQL [PARAM...]",
		Short:   "Run a raw statement with positional parameters",
		Example: `  definer exec "SELECT * FROM users WHERE age > ? AND active = ?" 18 true`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, 0, len(args)-1)
			for _, p := range args[1:] {
				params = append(params, parseValue(p))
			}
			return a.run(cmd, func(ctx context.Context, s *session) (any, error) {
				if asBool {
					return s.ExecBool(ctx, args[0], params)
				}
				rows, err := s.Exec(ctx, args[0], params)
				if err != nil {
					return nil, err
				}
				return table{rows: rows}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&asBool, "bool", false, "report success or whether a row was returned instead of the rows")
	return cmd
}

// allowAll lets unfiltered writes through the session policy.
func allowAll(ctx context.Context, all bool) context.Context {
	if !all {
		return ctx
	}
	return privacy.DecisionContext(ctx, privacy.Allow)
}

// parseOrders parses "column" or "column:direction" entries.
func parseOrders(specs []string) ([]definer.Order, error) {
	orders := make([]definer.Order, 0, len(specs))
	for _, spec := range specs {
		col, dir, ok := strings.Cut(spec, ":")
		o := definer.OrderAsc(strings.TrimSpace(col))
		if ok {
			d, err := definer.ParseDirection(strings.TrimSpace(dir))
			if err != nil {
				return nil, err
			}
			o.Direction = d
		}
		orders = append(orders, o)
	}
	return orders, nil
}
