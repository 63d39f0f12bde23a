package sql

import "errors"

// ScanMaps reads every remaining row of rows into a column→value mapping and
// closes rows. The rows are consumed: a second call yields nothing.
// Byte slices are returned as strings since text columns are commonly
// reported as []byte by the MySQL driver.
func ScanMaps(rows ColumnScanner) (_ []map[string]any, rerr error) {
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HasResultSet reports whether rows describe a result set. Statements such as
// INSERT or UPDATE sent through a query path report no columns.
func HasResultSet(rows ColumnScanner) (bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return false, err
	}
	return len(columns) > 0, nil
}
