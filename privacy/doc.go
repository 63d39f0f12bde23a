// Package privacy defines statement policies for the definer.
//
// A Policy is an ordered list of rules. Each rule inspects the compiled
// statement (its kind, table, SQL and whether it carries a WHERE clause)
// and returns Allow, Deny or Skip:
//
//	d := definer.New(drv, definer.WithPolicy(privacy.Policy{
//	    privacy.DenyUnfilteredDelete(),
//	    privacy.DenyTables("audit_log"),
//	}))
//
//	// DELETE FROM `users` is refused before it reaches the driver.
//	_, err := d.For("users").Delete(ctx)
//	errors.Is(err, privacy.Deny) // true
//
// A decision attached to the context overrides the policy, e.g. for
// maintenance jobs that intentionally truncate a table:
//
//	ctx = privacy.DecisionContext(ctx, privacy.Allow)
package privacy
