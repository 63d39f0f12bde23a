package definer

import "context"

// StatementKind is the kind of statement sent by an executor method.
type StatementKind string

// Statement kinds.
const (
	StmtSelect StatementKind = "select"
	StmtInsert StatementKind = "insert"
	StmtUpdate StatementKind = "update"
	StmtDelete StatementKind = "delete"
	StmtExec   StatementKind = "exec"
)

// Statement is a compiled statement about to be sent to the driver.
type Statement struct {
	Kind     StatementKind
	Table    string // empty for raw statements
	SQL      string
	Args     []any
	Filtered bool // a WHERE clause is present
}

// Policy decides whether a statement may be sent. A non-nil error rejects
// the statement and is returned to the caller as is.
type Policy interface {
	EvalStatement(context.Context, *Statement) error
}

// PolicyFunc is an adapter to allow the use of ordinary functions as a Policy.
type PolicyFunc func(context.Context, *Statement) error

// EvalStatement returns f(ctx, s).
func (f PolicyFunc) EvalStatement(ctx context.Context, s *Statement) error {
	return f(ctx, s)
}
