// Package shelltypes defines the core types shared by the eggshell command pipeline.
// This file contains the type descriptors attached to command parameters, which tell
// the caster how a raw token should be converted before an operation is invoked.
package shelltypes

import (
	"fmt"
	"reflect"
)

// Kind identifies the shape of a parameter type descriptor.
type Kind int

const (
	// KindString keeps the token as-is. It is also the behaviour of an untyped parameter.
	KindString Kind = iota
	// KindInt converts the token to an int
	KindInt
	// KindFloat converts the token to a float64
	KindFloat
	// KindBool converts the token by literal truthiness
	KindBool
	// KindList parses the token as a literal sequence and casts every element
	KindList
	// KindMap parses the token as a literal mapping and casts every key and value
	KindMap
	// KindOptional accepts the null sentinel or a value of the wrapped type
	KindOptional
	// KindCustom delegates to a user supplied parse function
	KindCustom
)

// String returns a human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindOptional:
		return "optional"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseFunc converts a raw token into a typed value for custom parameter types.
type ParseFunc func(raw string) (any, error)

// Type describes the declared type of a parameter. Descriptors nest: a list of
// optional ints is ListOf(Optional(Int())).
type Type struct {
	Kind Kind
	// Elem is the element type for lists and optionals, and the value type for maps
	Elem *Type
	// Key is the key type for maps
	Key *Type
	// Name is the display name of a custom type
	Name string
	// Parse converts tokens for custom types
	Parse ParseFunc
	// GoType is the Go type produced by Parse. When nil, containers of this type hold any.
	GoType reflect.Type
}

// String returns the display name used in help text and error messages.
func (t *Type) String() string {
	if t == nil {
		return "string"
	}
	switch t.Kind {
	case KindList:
		return "[]" + t.Elem.String()
	case KindMap:
		return fmt.Sprintf("map[%s]%s", t.Key.String(), t.Elem.String())
	case KindOptional:
		return fmt.Sprintf("optional[%s]", t.Elem.String())
	case KindCustom:
		if t.Name != "" {
			return t.Name
		}
		return "custom"
	default:
		return t.Kind.String()
	}
}

// Validate reports whether the descriptor is well formed: containers carry their
// element types, map keys are scalar and custom types carry a parse function.
func (t *Type) Validate() error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		return nil
	case KindList, KindOptional:
		if t.Elem == nil {
			return fmt.Errorf("%s type requires an element type", t.Kind)
		}
		return t.Elem.Validate()
	case KindMap:
		if t.Key == nil || t.Elem == nil {
			return fmt.Errorf("map type requires key and value types")
		}
		switch t.Key.Kind {
		case KindString, KindInt, KindFloat, KindBool:
		default:
			return fmt.Errorf("map key type %s is not a scalar", t.Key)
		}
		if err := t.Key.Validate(); err != nil {
			return err
		}
		return t.Elem.Validate()
	case KindCustom:
		if t.Parse == nil {
			return fmt.Errorf("custom type %s has no parse function", t)
		}
		return nil
	default:
		return fmt.Errorf("unknown type kind %d", t.Kind)
	}
}

// String returns the descriptor for plain string parameters.
func String() *Type { return &Type{Kind: KindString} }

// Int returns the descriptor for int parameters.
func Int() *Type { return &Type{Kind: KindInt} }

// Float returns the descriptor for float64 parameters.
func Float() *Type { return &Type{Kind: KindFloat} }

// Bool returns the descriptor for bool parameters.
func Bool() *Type { return &Type{Kind: KindBool} }

// ListOf returns the descriptor for a sequence of elem.
func ListOf(elem *Type) *Type { return &Type{Kind: KindList, Elem: elem} }

// MapOf returns the descriptor for a mapping from key to value.
func MapOf(key, value *Type) *Type { return &Type{Kind: KindMap, Key: key, Elem: value} }

// Optional returns the descriptor for a value of elem or the null sentinel.
func Optional(elem *Type) *Type { return &Type{Kind: KindOptional, Elem: elem} }

// Custom returns the descriptor for a user defined type converted by parse.
// goType may be nil when the produced values have no single Go type.
func Custom(name string, goType reflect.Type, parse ParseFunc) *Type {
	return &Type{Kind: KindCustom, Name: name, Parse: parse, GoType: goType}
}
