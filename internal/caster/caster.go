// Package caster provides token type conversion for eggshell.
// It converts raw command-line tokens into typed Go values according to the
// parameter type descriptors declared on an operation.
package caster

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"eggshell/internal/literal"
	"eggshell/pkg/shelltypes"
)

// CastError is returned when a token cannot be converted to a type.
type CastError struct {
	Token string
	Type  string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Token, e.Type, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Cast converts raw to the type described by t. A nil descriptor keeps the token
// as a string.
func Cast(t *shelltypes.Type, raw string) (any, error) {
	v, err := castToken(t, raw)
	if err != nil {
		var castErr *CastError
		if errors.As(err, &castErr) {
			return nil, err
		}
		return nil, &CastError{Token: raw, Type: t.String(), Err: err}
	}
	return v, nil
}

// MustCast is like Cast but panics on failure. It is meant for defaults and tests.
func MustCast(t *shelltypes.Type, raw string) any {
	v, err := Cast(t, raw)
	if err != nil {
		panic(err)
	}
	return v
}

func castToken(t *shelltypes.Type, raw string) (any, error) {
	if t == nil {
		return raw, nil
	}

	switch t.Kind {
	case shelltypes.KindString:
		return raw, nil
	case shelltypes.KindCustom:
		return t.Parse(raw)
	case shelltypes.KindOptional:
		if literal.IsNull(raw) {
			return nil, nil
		}
		return castToken(t.Elem, raw)
	}

	parsed, err := literal.Parse(raw)
	if err != nil {
		// Not a literal: scalars fall back to parsing the plain text.
		switch t.Kind {
		case shelltypes.KindBool:
			return raw != "", nil
		case shelltypes.KindInt:
			return parseInt(raw)
		case shelltypes.KindFloat:
			return parseFloat(raw)
		default:
			return nil, fmt.Errorf("not a %s literal: %w", t.Kind, err)
		}
	}
	return castValue(t, parsed)
}

// castValue converts an already parsed literal value.
func castValue(t *shelltypes.Type, v any) (any, error) {
	if t == nil {
		return plainString(v), nil
	}

	switch t.Kind {
	case shelltypes.KindString:
		return plainString(v), nil
	case shelltypes.KindBool:
		return literal.Truthy(v), nil
	case shelltypes.KindInt:
		return toInt(v)
	case shelltypes.KindFloat:
		return toFloat(v)
	case shelltypes.KindOptional:
		if v == nil {
			return nil, nil
		}
		return castValue(t.Elem, v)
	case shelltypes.KindCustom:
		return t.Parse(plainString(v))
	case shelltypes.KindList:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list, got %s", literal.Format(v))
		}
		out := reflect.MakeSlice(reflect.SliceOf(GoType(t.Elem)), 0, len(items))
		for i, item := range items {
			cast, err := castValue(t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			rv, err := assignable(cast, GoType(t.Elem))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = reflect.Append(out, rv)
		}
		return out.Interface(), nil
	case shelltypes.KindMap:
		m, ok := v.(*literal.Map)
		if !ok {
			return nil, fmt.Errorf("expected a map, got %s", literal.Format(v))
		}
		out := reflect.MakeMapWithSize(reflect.MapOf(GoType(t.Key), GoType(t.Elem)), m.Len())
		for _, e := range m.Entries() {
			key, err := castValue(t.Key, e.Key)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", literal.Format(e.Key), err)
			}
			value, err := castValue(t.Elem, e.Value)
			if err != nil {
				return nil, fmt.Errorf("value of %s: %w", literal.Format(e.Key), err)
			}
			kv, err := assignable(key, GoType(t.Key))
			if err != nil {
				return nil, err
			}
			vv, err := assignable(value, GoType(t.Elem))
			if err != nil {
				return nil, err
			}
			out.SetMapIndex(kv, vv)
		}
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

// GoType returns the Go type of values produced for t.
func GoType(t *shelltypes.Type) reflect.Type {
	if t == nil {
		return reflect.TypeOf("")
	}
	switch t.Kind {
	case shelltypes.KindString:
		return reflect.TypeOf("")
	case shelltypes.KindInt:
		return reflect.TypeOf(0)
	case shelltypes.KindFloat:
		return reflect.TypeOf(0.0)
	case shelltypes.KindBool:
		return reflect.TypeOf(false)
	case shelltypes.KindList:
		return reflect.SliceOf(GoType(t.Elem))
	case shelltypes.KindMap:
		return reflect.MapOf(GoType(t.Key), GoType(t.Elem))
	case shelltypes.KindCustom:
		if t.GoType != nil {
			return t.GoType
		}
		return anyType
	default:
		return anyType
	}
}

func assignable(v any, typ reflect.Type) (reflect.Value, error) {
	if v == nil {
		if typ.Kind() == reflect.Interface {
			return reflect.Zero(typ), nil
		}
		return reflect.Value{}, fmt.Errorf("null is not a %s", typ)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(typ) {
		return reflect.Value{}, fmt.Errorf("%s is not a %s", rv.Type(), typ)
	}
	return rv, nil
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) || x >= math.MaxInt64 || x < math.MinInt64 {
			// float64(MaxInt64) rounds up to 2^63, which int cannot hold.
			return nil, fmt.Errorf("float %v out of int range", x)
		}
		return int(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt(x)
	default:
		return nil, fmt.Errorf("cannot use %s as int", literal.Format(v))
	}
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		return parseFloat(x)
	default:
		return nil, fmt.Errorf("cannot use %s as float", literal.Format(v))
	}
}

func parseInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid int %q", s)
	}
	return n, nil
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q", s)
	}
	return f, nil
}

func plainString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return literal.Format(v)
}

// Format renders a cast value back to a token that casts to the same value:
// strings are returned unquoted, everything else in literal form.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return literal.FormatFloat(x)
	default:
		return literal.Format(v)
	}
}
