package sql

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Kind is the closed set of value kinds a bound parameter is classified as.
// The classification is decided once, at the input boundary, by KindOf.
type Kind uint8

// Value kinds.
const (
	KindOther Kind = iota // unrecognized (channels, funcs, complex numbers)
	KindNull
	KindBool
	KindInt
	KindFloat
	KindText
	KindBlob
	KindComposite // slices, arrays, maps and structs
)

var kindNames = [...]string{
	KindOther:     "other",
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindText:      "text",
	KindBlob:      "blob",
	KindComposite: "composite",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Tag is a bind-type category, as understood by drivers that bind by type.
type Tag byte

// Bind-type tags.
const (
	TagInt    Tag = 'i'
	TagString Tag = 's'
	TagBlob   Tag = 'b'
)

// kindTags maps every Kind to its bind tag. Booleans bind as integers and
// composites bind as strings once serialized.
var kindTags = [...]Tag{
	KindOther:     TagBlob,
	KindNull:      TagBlob,
	KindBool:      TagInt,
	KindInt:       TagInt,
	KindFloat:     TagInt,
	KindText:      TagString,
	KindBlob:      TagBlob,
	KindComposite: TagString,
}

// Tag returns the bind tag of the kind.
func (k Kind) Tag() Tag {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return TagBlob
}

// KindOf classifies v. It is total: every value maps to exactly one Kind.
func KindOf(v any) Kind {
	switch v := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string, time.Time:
		return KindText
	case []byte:
		return KindBlob
	case driver.Valuer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return KindNull
		}
		dv, err := v.Value()
		if err != nil {
			return KindOther
		}
		return KindOf(dv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindText
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindBlob
		}
		return KindComposite
	case reflect.Array, reflect.Struct:
		return KindComposite
	default:
		return KindOther
	}
}

// Tags returns the bind-tag string of args, one byte per argument.
func Tags(args []any) string {
	var b strings.Builder
	b.Grow(len(args))
	for _, a := range args {
		b.WriteByte(byte(KindOf(a).Tag()))
	}
	return b.String()
}

// Bind prepares args for binding: booleans become 0/1 integers, composites are
// serialized to JSON text and typed nils become nil. Other values are passed
// through unchanged.
func Bind(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		if _, ok := a.(driver.Valuer); ok {
			out[i] = a
			continue
		}
		switch KindOf(a) {
		case KindNull:
			out[i] = nil
		case KindBool:
			out[i] = BoolInt(a)
		case KindComposite:
			b, err := json.Marshal(a)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = string(b)
		default:
			out[i] = a
		}
	}
	return out, nil
}

// BoolInt converts a (possibly named, pointer or driver.Valuer) boolean to
// 0 or 1. Values of other kinds convert to 0.
func BoolInt(v any) int64 {
	if vr, ok := v.(driver.Valuer); ok && KindOf(v) == KindBool {
		dv, _ := vr.Value()
		return BoolInt(dv)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Bool && rv.Bool() {
		return 1
	}
	return 0
}
