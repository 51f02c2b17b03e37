// Package mapper converts raw graph records into typed values.
//
// A record is described by a list of Fields. Map validates every declared
// field, converts it to its semantic kind and returns the result as Values,
// from which callers build their domain objects. Mapping performs no I/O, so
// every access strategy shares the same mapping behaviour.
package mapper

import (
	"fmt"
	"math"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/rlch/moviegraph"
)

// Kind is the semantic type of a field.
type Kind int

// Field kinds.
const (
	String Kind = iota
	Int
	Float
	Bool
	StringList
	// Node is a nested property map: a dbtype.Node or a plain map[string]any.
	Node
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case StringList:
		return "list<string>"
	case Node:
		return "node"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field declares one named field of a record.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	// Fields describes the properties of a Node field.
	Fields []Field
}

// Values holds the converted fields of one record. Optional fields that were
// absent map to nil; nested nodes map to Values.
type Values map[string]any

// Map converts record according to fields.
func Map(record map[string]any, fields []Field) (Values, error) {
	return mapLevel(record, fields, "")
}

// Decode maps record and hands the result to build.
func Decode[T any](record map[string]any, fields []Field, build func(Values) T) (T, error) {
	values, err := Map(record, fields)
	if err != nil {
		var zero T

		return zero, err
	}

	return build(values), nil
}

func mapLevel(record map[string]any, fields []Field, prefix string) (Values, error) {
	out := make(Values, len(fields))

	for _, f := range fields {
		path := prefix + f.Name

		raw, ok := record[f.Name]
		if !ok || raw == nil {
			if !f.Optional {
				return nil, &moviegraph.MappingError{Field: path, Shape: shape(record), Reason: "required field is missing"}
			}

			out[f.Name] = nil

			continue
		}

		v, err := convert(raw, f, path, record)
		if err != nil {
			return nil, err
		}

		out[f.Name] = v
	}

	return out, nil
}

// convert converts raw to f's kind. record is the enclosing level, reported
// as the shape of any failure.
func convert(raw any, f Field, path string, record map[string]any) (any, error) {
	switch f.Kind {
	case String:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case Int:
		if n, ok := toInt(raw); ok {
			return n, nil
		}
	case Float:
		if n, ok := toFloat(raw); ok {
			return n, nil
		}
	case Bool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case StringList:
		return toStrings(raw, path, record)
	case Node:
		props, ok := toProps(raw)
		if !ok {
			break
		}

		return mapLevel(props, f.Fields, path+".")
	}

	return nil, &moviegraph.MappingError{
		Field:  path,
		Shape:  shape(record),
		Reason: fmt.Sprintf("cannot convert %T to %s", raw, f.Kind),
	}
}

func toInt(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case float64:
		// 2^63 itself is representable as float64 but not as int64.
		if n == math.Trunc(n) && n >= math.MinInt64 && n < -math.MinInt64 {
			return int64(n), true
		}
	}

	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}

	if i, ok := toInt(raw); ok {
		return float64(i), true
	}

	return 0, false
}

func toStrings(raw any, path string, record map[string]any) ([]string, error) {
	switch list := raw.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)

		return out, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &moviegraph.MappingError{
					Field:  fmt.Sprintf("%s[%d]", path, i),
					Shape:  shape(record),
					Reason: fmt.Sprintf("cannot convert %T to string", item),
				}
			}

			out = append(out, s)
		}

		return out, nil
	}

	return nil, &moviegraph.MappingError{
		Field:  path,
		Shape:  shape(record),
		Reason: fmt.Sprintf("cannot convert %T to %s", raw, StringList),
	}
}

func toProps(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case dbtype.Node:
		return v.Props, true
	case *dbtype.Node:
		if v == nil {
			return nil, false
		}

		return v.Props, true
	case map[string]any:
		return v, true
	case moviegraph.Record:
		return v, true
	case Values:
		return v, true
	}

	return nil, false
}

func shape(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
