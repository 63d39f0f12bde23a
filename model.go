package definer

import "regexp"

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for table.column).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// columnModel is the whitelist of columns of the current table context.
// A nil model accepts every column.
type columnModel struct {
	names []string
	set   map[string]struct{}
}

// newColumnModel validates columns and returns the model holding them.
func newColumnModel(columns []string) (*columnModel, error) {
	m := &columnModel{
		names: make([]string, 0, len(columns)),
		set:   make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		if !isValidIdentifier(c) {
			return nil, NewConfigError("model", c, ErrInvalidColumn)
		}
		if _, dup := m.set[c]; dup {
			return nil, NewConfigError("model", c, ErrInvalidColumn)
		}
		m.set[c] = struct{}{}
		m.names = append(m.names, c)
	}
	return m, nil
}

// has reports whether column c may be used.
func (m *columnModel) has(c string) bool {
	if m == nil {
		return true
	}
	_, ok := m.set[c]
	return ok
}

// len returns the number of model columns, or 0 for no model.
func (m *columnModel) len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// filter returns the columns of cs that belong to the model, in order.
func (m *columnModel) filter(cs []string) []string {
	if m == nil {
		return cs
	}
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if m.has(c) {
			out = append(out, c)
		}
	}
	return out
}

// validate returns a ConfigError for the first column outside the model.
func (m *columnModel) validate(op string, cs []string) error {
	for _, c := range cs {
		if !m.has(c) {
			return NewConfigError(op, c, ErrUnknownColumn)
		}
	}
	return nil
}
