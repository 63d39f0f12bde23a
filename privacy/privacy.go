// Package privacy provides statement policies evaluated by a definer before
// a statement is sent to the driver.
package privacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/definer"
)

// Policy decision sentinel errors.
//
// Rules return one of these to steer the evaluation. Use errors.Is() to
// check for them:
//
//	if errors.Is(err, privacy.Deny) { ... }
var (
	// Allow terminates the evaluation with an allow decision.
	Allow = errors.New("definer/privacy: allow rule")

	// Deny terminates the evaluation with a deny decision.
	Deny = errors.New("definer/privacy: deny rule")

	// Skip continues the evaluation with the next rule.
	Skip = errors.New("definer/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Rule decides on a single statement. It returns Allow, Deny, Skip (or
// nil, equivalent to Skip), or any other error, which denies.
type Rule = definer.Policy

// RuleFunc is an adapter to allow the use of ordinary functions as rules.
type RuleFunc func(context.Context, *definer.Statement) error

// EvalStatement returns f(ctx, s).
func (f RuleFunc) EvalStatement(ctx context.Context, s *definer.Statement) error {
	return f(ctx, s)
}

// Policy is an ordered list of rules. It implements definer.Policy: the
// first Allow permits the statement, the first Deny (or other error)
// rejects it, and a statement no rule decided on is permitted.
type Policy []Rule

// EvalStatement evaluates the rules in order.
func (p Policy) EvalStatement(ctx context.Context, s *definer.Statement) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.EvalStatement(ctx, s); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext returns a context carrying a decision that overrides
// every Policy evaluated with it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

var _ definer.Policy = Policy(nil)
