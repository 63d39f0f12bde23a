package privacy

import (
	"context"
	"slices"

	"github.com/syssam/definer"
)

// AlwaysAllowRule returns a rule that always allows.
func AlwaysAllowRule() Rule {
	return RuleFunc(func(context.Context, *definer.Statement) error { return Allow })
}

// AlwaysDenyRule returns a rule that always denies.
func AlwaysDenyRule() Rule {
	return RuleFunc(func(context.Context, *definer.Statement) error { return Deny })
}

// OnKind evaluates rule only for statements of the given kinds.
func OnKind(rule Rule, kinds ...definer.StatementKind) Rule {
	return RuleFunc(func(ctx context.Context, s *definer.Statement) error {
		if slices.Contains(kinds, s.Kind) {
			return rule.EvalStatement(ctx, s)
		}
		return Skip
	})
}

// DenyKind denies statements of the given kinds.
func DenyKind(kinds ...definer.StatementKind) Rule {
	return OnKind(RuleFunc(func(_ context.Context, s *definer.Statement) error {
		return Denyf("definer/privacy: %s statements are not allowed", s.Kind)
	}), kinds...)
}

// ReadOnly denies every statement but SELECT.
func ReadOnly() Rule {
	return DenyKind(definer.StmtInsert, definer.StmtUpdate, definer.StmtDelete, definer.StmtExec)
}

// DenyUnfilteredDelete denies DELETE statements without a WHERE clause.
func DenyUnfilteredDelete() Rule {
	return denyUnfiltered(definer.StmtDelete)
}

// DenyUnfilteredUpdate denies UPDATE statements without a WHERE clause.
func DenyUnfilteredUpdate() Rule {
	return denyUnfiltered(definer.StmtUpdate)
}

func denyUnfiltered(kind definer.StatementKind) Rule {
	return OnKind(RuleFunc(func(_ context.Context, s *definer.Statement) error {
		if !s.Filtered {
			return Denyf("definer/privacy: %s on %q without filter", s.Kind, s.Table)
		}
		return Skip
	}), kind)
}

// AllowTables allows statements on the given tables and skips the others.
func AllowTables(tables ...string) Rule {
	return RuleFunc(func(_ context.Context, s *definer.Statement) error {
		if s.Table != "" && slices.Contains(tables, s.Table) {
			return Allow
		}
		return Skip
	})
}

// DenyTables denies statements on the given tables.
func DenyTables(tables ...string) Rule {
	return RuleFunc(func(_ context.Context, s *definer.Statement) error {
		if slices.Contains(tables, s.Table) {
			return Denyf("definer/privacy: table %q is not allowed", s.Table)
		}
		return Skip
	})
}
