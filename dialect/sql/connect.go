package sql

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/definer/dialect"
)

// Connect opens a Driver for the given dialect from discrete connection
// settings. host may carry a port ("db.internal:3306"). For SQLite, database
// is the file name and an empty name opens an in-memory database.
//
// The database/sql driver of the dialect must be registered by the caller,
// e.g. with a blank import of github.com/go-sql-driver/mysql.
func Connect(d, host, user, password, database string) (*Driver, error) {
	dsn, err := DSN(d, host, user, password, database)
	if err != nil {
		return nil, err
	}
	drv, err := Open(d, dsn)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: connect: %w", err)
	}
	return drv, nil
}

// DSN formats a data source name for the given dialect.
func DSN(d, host, user, password, database string) (string, error) {
	switch d {
	case dialect.MySQL:
		cfg := mysql.NewConfig()
		cfg.User = user
		cfg.Passwd = password
		cfg.DBName = database
		if host != "" {
			cfg.Net = "tcp"
			cfg.Addr = host
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case dialect.Postgres:
		var kv []string
		if host != "" {
			h, port, err := net.SplitHostPort(host)
			if err != nil {
				h, port = host, ""
			}
			kv = append(kv, pgPair("host", h))
			if port != "" {
				kv = append(kv, pgPair("port", port))
			}
		}
		if user != "" {
			kv = append(kv, pgPair("user", user))
		}
		if password != "" {
			kv = append(kv, pgPair("password", password))
		}
		if database != "" {
			kv = append(kv, pgPair("dbname", database))
		}
		return strings.Join(kv, " "), nil
	case dialect.SQLite:
		if database == "" {
			return ":memory:", nil
		}
		return database, nil
	default:
		return "", fmt.Errorf("dialect/sql: unsupported dialect %q", d)
	}
}

// pgPair renders a key/value pair of a lib/pq connection string, quoting the
// value when it is empty or holds spaces, quotes or backslashes.
func pgPair(k, v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return k + "=" + v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return k + "='" + v + "'"
}
