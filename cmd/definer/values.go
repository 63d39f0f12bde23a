package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/definer"
)

// parseValue decodes a command-line value as a YAML scalar: 42 is an
// integer, true a boolean, null a NULL and anything else a string.
func parseValue(s string) any {
	if s == "" {
		return ""
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	if _, ok := v.(map[string]any); ok {
		// "a: b" is a string, not a mapping.
		return s
	}
	return v
}

// parseFields parses column=value pairs in order.
func parseFields(pairs []string) (definer.Fields, error) {
	fields := make(definer.Fields, 0, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid --set %q: expect column=value", p)
		}
		fields = append(fields, definer.F(strings.TrimSpace(col), parseValue(val)))
	}
	return fields, nil
}

func parseTuple(values []string) definer.Tuple {
	t := make(definer.Tuple, len(values))
	for i, v := range values {
		t[i] = parseValue(v)
	}
	return t
}
