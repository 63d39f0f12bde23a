package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatMsgpack = "msgpack"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML, formatMsgpack:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// table is a result set. columns fixes the column order; without it the
// columns are sorted by name.
type table struct {
	columns []string
	rows    []map[string]any
}

func (t table) header() []string {
	if len(t.columns) > 0 {
		return t.columns
	}
	var cols []string
	for _, row := range t.rows {
		for c := range row {
			if !slices.Contains(cols, c) {
				cols = append(cols, c)
			}
		}
	}
	slices.Sort(cols)
	return cols
}

// render writes v, a table or a bool, to w in the given format.
func render(w io.Writer, format string, v any) error {
	if t, ok := v.(table); ok {
		v = t.rows
		if format == formatTable {
			return renderTable(w, t)
		}
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(v)
	default:
		if ok, isBool := v.(bool); isBool {
			if ok {
				_, err := color.New(color.FgGreen).Fprintln(w, "true")
				return err
			}
			_, err := color.New(color.FgYellow).Fprintln(w, "false")
			return err
		}
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

func renderTable(w io.Writer, t table) error {
	header := t.header()
	data := pterm.TableData{header}
	for _, row := range t.rows {
		line := make([]string, len(header))
		for i, c := range header {
			line[i] = cell(row[c])
		}
		data = append(data, line)
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "(%d %s)\n", len(t.rows), plural(len(t.rows), "row"))
	return err
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
