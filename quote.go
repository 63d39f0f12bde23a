package definer

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/syssam/definer/dialect"
)

// quote quotes an identifier for the dialect: double quotes for Postgres,
// backticks otherwise.
func quote(d, ident string) string {
	if d == dialect.Postgres {
		return pq.QuoteIdentifier(ident)
	}
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// quoteList quotes and comma separates identifiers.
func quoteList(d string, idents []string) string {
	var b strings.Builder
	for i, id := range idents {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(d, id))
	}
	return b.String()
}

// rebind rewrites "?" placeholders to "$n" for Postgres. Placeholders inside
// quoted identifiers or string literals are left untouched.
func rebind(d, query string) string {
	if d != dialect.Postgres || !strings.Contains(query, "?") {
		return query
	}
	var (
		b strings.Builder
		n int
		q byte // open quote character, if any
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case q != 0:
			if c == q {
				q = 0
			}
		case c == '"' || c == '`' || c == '\'':
			q = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
