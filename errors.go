package definer

import (
	"errors"
	"fmt"

	"github.com/syssam/definer/dialect/sql/sqlerr"
)

// Sentinel errors wrapped by ConfigError and CompileError.
var (
	// ErrNoTable is returned when a statement is executed before For was called.
	ErrNoTable = errors.New("definer: no table selected")

	// ErrInvalidColumn is returned for a column model entry that is not a column name.
	ErrInvalidColumn = errors.New("definer: invalid column name")

	// ErrUnknownColumn is returned when a written column is not part of the active column model.
	ErrUnknownColumn = errors.New("definer: column not in model")

	// ErrColumnCount is returned when an insert does not supply one value per model column.
	ErrColumnCount = errors.New("definer: value count does not match column model")

	// ErrInvalidLimit is returned for negative or over-specified limits.
	ErrInvalidLimit = errors.New("definer: invalid limit")

	// ErrInvalidOrder is returned for an unknown ordering direction.
	ErrInvalidOrder = errors.New("definer: invalid order direction")

	// ErrUnknownOperator is returned when a filter uses an operator missing from the operator table.
	ErrUnknownOperator = errors.New("definer: unknown operator")

	// ErrInvalidOperand is returned for an empty IN list or a BETWEEN
	// comparison that is not given exactly two values.
	ErrInvalidOperand = errors.New("definer: invalid operand")

	// ErrEmptyValues is returned when an insert or update carries no values.
	ErrEmptyValues = errors.New("definer: no values")
)

// ConfigError is a caller-side configuration mistake detected before any
// SQL is sent to the driver. Retrying cannot fix it.
type ConfigError struct {
	Op     string // Definer method (e.g. "model", "insert", "update")
	Column string // Offending column, if any
	Err    error  // Underlying sentinel
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%v (%s: %q)", e.Err, e.Op, e.Column)
	}
	return fmt.Sprintf("%v (%s)", e.Err, e.Op)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError returns a new ConfigError.
func NewConfigError(op, column string, err error) *ConfigError {
	return &ConfigError{Op: op, Column: column, Err: err}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// CompileError is returned when a filter cannot be compiled, for example
// because it names an operator missing from the operator table.
type CompileError struct {
	Column string // Column the failing comparison applies to
	Op     Op     // Operator of the failing comparison
	Err    error  // Underlying sentinel
}

// Error returns the error string.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%v: %q on column %q", e.Err, string(e.Op), e.Column)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsCompileError returns true if the error is a CompileError.
func IsCompileError(err error) bool {
	if err == nil {
		return false
	}
	var e *CompileError
	return errors.As(err, &e)
}

// DriverError wraps an error returned by the driver collaborator. The
// wrapped error is left unmodified and the statement is not retried.
type DriverError struct {
	Op    string // Statement kind (e.g. "select", "insert")
	Query string // SQL sent to the driver
	Err   error  // Driver error
}

// Error returns the error string.
func (e *DriverError) Error() string {
	return fmt.Sprintf("definer: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *DriverError) Unwrap() error {
	return e.Err
}

// IsDriverError returns true if the error is a DriverError.
func IsDriverError(err error) bool {
	if err == nil {
		return false
	}
	var e *DriverError
	return errors.As(err, &e)
}

// IsConstraintError returns true if the error resulted from a database
// constraint violation reported by the driver.
func IsConstraintError(err error) bool {
	return IsDriverError(err) && sqlerr.IsConstraintError(err)
}
