package definer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/definer"
)

func TestCompileWhere(t *testing.T) {
	tests := []struct {
		name  string
		conds []definer.Condition
		sql   string
		args  []any
	}{
		{
			name: "empty",
		},
		{
			name:  "nil_condition",
			conds: []definer.Condition{nil},
		},
		{
			name:  "single_equality",
			conds: []definer.Condition{definer.Cond{"id": 1}},
			sql:   "(`id` = ?)",
			args:  []any{1},
		},
		{
			name:  "or_of_groups",
			conds: []definer.Condition{definer.Cond{"a": 1}, definer.Cond{"b": 2}},
			sql:   "(`a` = ?) OR (`b` = ?)",
			args:  []any{1, 2},
		},
		{
			name: "sorted_columns_and_operators",
			conds: []definer.Condition{definer.Cond{
				"status": "active",
				"age":    definer.Ops{definer.OpLT: 65, definer.OpGTE: 18},
			}},
			sql:  "(`age` >= ? AND `age` < ? AND `status` = ?)",
			args: []any{18, 65, "active"},
		},
		{
			name:  "plain_operator_map",
			conds: []definer.Condition{definer.Cond{"n": map[definer.Op]any{definer.OpNotEquals: 0}}},
			sql:   "(`n` <> ?)",
			args:  []any{0},
		},
		{
			name:  "group_keeps_order",
			conds: []definer.Condition{definer.And(definer.EQ("z", 1), definer.Like("a", "x%"))},
			sql:   "(`z` = ? AND `a` LIKE ?)",
			args:  []any{1, "x%"},
		},
		{
			name:  "is_null",
			conds: []definer.Condition{definer.Cond{"deleted_at": nil}},
			sql:   "(`deleted_at` IS NULL)",
		},
		{
			name: "is_not_null",
			conds: []definer.Condition{definer.And(
				definer.NEQ("a", nil),
				definer.NotNull("b"),
				definer.GT("c", nil),
			)},
			sql: "(`a` IS NOT NULL AND `b` IS NOT NULL AND `c` IS NOT NULL)",
		},
		{
			name:  "in",
			conds: []definer.Condition{definer.And(definer.In("id", 1, 2, 3))},
			sql:   "(`id` IN (?,?,?))",
			args:  []any{1, 2, 3},
		},
		{
			name:  "in_typed_slice",
			conds: []definer.Condition{definer.Cond{"id": definer.Ops{definer.OpIn: []int64{4, 5}}}},
			sql:   "(`id` IN (?,?))",
			args:  []any{int64(4), int64(5)},
		},
		{
			name:  "in_spread_slice",
			conds: []definer.Condition{definer.And(definer.In("id", []int{1, 2}))},
			sql:   "(`id` IN (?,?))",
			args:  []any{1, 2},
		},
		{
			name:  "in_scalar",
			conds: []definer.Condition{definer.Cond{"id": definer.Ops{definer.OpIn: 7}}},
			sql:   "(`id` IN (?))",
			args:  []any{7},
		},
		{
			name:  "between",
			conds: []definer.Condition{definer.And(definer.Between("age", 18, 30))},
			sql:   "(`age` BETWEEN ? AND ?)",
			args:  []any{18, 30},
		},
		{
			name:  "bitwise",
			conds: []definer.Condition{definer.And(definer.Compare("flags", definer.OpBitAnd, 4))},
			sql:   "(`flags` & ?)",
			args:  []any{4},
		},
		{
			name:  "blob_is_scalar",
			conds: []definer.Condition{definer.And(definer.EQ("hash", []byte{1, 2}))},
			sql:   "(`hash` = ?)",
			args:  []any{[]byte{1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := definer.CompileWhere(tt.conds...)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, p.SQL)
			assert.Equal(t, tt.args, p.Args)
			assert.Equal(t, tt.sql == "", p.Empty())
			assert.Equal(t, strings.Count(p.SQL, "?"), len(p.Args))
		})
	}
}

func TestCompileWhereErrors(t *testing.T) {
	tests := []struct {
		name string
		cond definer.Condition
		err  error
	}{
		{"unknown_operator", definer.Cond{"a": definer.Ops{"APPROX": 1}}, definer.ErrUnknownOperator},
		{"empty_in", definer.And(definer.In("id")), definer.ErrInvalidOperand},
		{"empty_in_slice", definer.Cond{"id": definer.Ops{definer.OpIn: []string{}}}, definer.ErrInvalidOperand},
		{"nil_slice_in", definer.Cond{"id": definer.Ops{definer.OpIn: []int(nil)}}, definer.ErrInvalidOperand},
		{"nil_slice_in_term", definer.And(definer.In("id", []string(nil))), definer.ErrInvalidOperand},
		{"nil_slice_between", definer.And(definer.Compare("age", definer.OpBetween, []int(nil))), definer.ErrInvalidOperand},
		{"between_one_value", definer.And(definer.Compare("age", definer.OpBetween, []any{1})), definer.ErrInvalidOperand},
		{"between_scalar", definer.And(definer.Compare("age", definer.OpBetween, 1)), definer.ErrInvalidOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definer.CompileWhere(tt.cond)
			require.ErrorIs(t, err, tt.err)
			assert.True(t, definer.IsCompileError(err))
		})
	}
}

func TestCondTerms(t *testing.T) {
	terms := definer.Cond{
		"b": 2,
		"a": definer.Ops{definer.OpLTE: 9, definer.OpGT: 1},
	}.Terms()
	assert.Equal(t, []definer.Term{
		{Column: "a", Op: definer.OpGT, Value: 1},
		{Column: "a", Op: definer.OpLTE, Value: 9},
		{Column: "b", Op: definer.OpEquals, Value: 2},
	}, terms)
}
