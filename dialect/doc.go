// Package dialect provides the database dialect abstraction for definer.
//
// This package defines the narrow driver interface the statement definer
// talks to, allowing it to run against MySQL, PostgreSQL and SQLite
// through the same code path.
//
// # Supported Dialects
//
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// Exec is used for statements that produce no result set and Query for
// statements that do. The args parameter is always a []any holding the
// positional values bound to the query placeholders.
//
// # Usage
//
//	import (
//	    "github.com/syssam/definer"
//	    "github.com/syssam/definer/dialect"
//	    "github.com/syssam/definer/dialect/sql"
//	)
//
//	drv, err := sql.Connect(dialect.MySQL, "localhost", "root", "secret", "shop")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	d := definer.New(drv)
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver, value coercion and row normalization
//   - dialect/sql/sqlerr: driver error classification
package dialect
