// Package definer builds parameterized SQL statements from chained
// configuration and runs them through a dialect.Driver.
//
// A Definer holds the state of one logical query: the target table, an
// optional column model, the filter, the ordering and the limit. Executor
// methods compile that state into SQL with "?" placeholders (rebound to $n
// for PostgreSQL) and a positional argument list:
//
//	drv, err := sql.Open(dialect.MySQL, dsn)
//	if err != nil {
//	    return err
//	}
//	d := definer.New(drv)
//	res, err := d.For("users").
//	    Model("id", "name", "active").
//	    Where(definer.Cond{"active": true}, definer.Cond{"name": definer.Ops{definer.OpLike: "a%"}}).
//	    OrderBy(definer.OrderDesc("id")).
//	    Limit(10).
//	    Select(ctx, "id", "name")
//	// SELECT `id`,`name` FROM `users` WHERE (`active` = ?) OR (`name` LIKE ?) ORDER BY `id` DESC LIMIT 10
//
// Filters drop columns outside the column model, while inserts, updates
// and deletes referencing them fail with a *ConfigError before any SQL is
// sent. A Select without columns is an existence check.
package definer
