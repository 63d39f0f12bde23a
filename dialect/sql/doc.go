// Package sql implements the dialect.Driver interface on top of database/sql.
//
// It is the driver collaborator of the statement definer: it owns the
// connection, classifies and prepares bound values, and turns result sets
// into row maps.
//
// # Opening a Driver
//
//	drv, err := sql.Connect(dialect.MySQL, "localhost:3306", "root", "secret", "shop")
//	drv, err := sql.Open(dialect.SQLite, "file:shop.db")
//	drv := sql.OpenDB(dialect.Postgres, db)
//
// # Value Coercion
//
// Every bound value is classified once into a closed set of kinds:
//
//	sql.KindOf(true)            // KindBool
//	sql.KindOf(int64(1))        // KindInt
//	sql.KindOf("x")             // KindText
//	sql.KindOf([]byte{1})       // KindBlob
//	sql.KindOf([]string{"a"})   // KindComposite
//	sql.KindOf((*int)(nil))     // KindNull
//
// Each kind maps to one bind tag ('i', 's' or 'b'); booleans bind as
// integers and composites are serialized to JSON text before binding.
//
// # Rows
//
// ScanMaps reads a result set into []map[string]any. Rows can be traversed
// only once.
//
// # Instrumentation
//
//	sd := sql.NewStatsDriver(drv, sql.WithSlowThreshold(200*time.Millisecond), sql.WithSlowQueryLog(nil))
//	dd := sql.NewDebugDriver(drv, slog.Default())
package sql
