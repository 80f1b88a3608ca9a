// Package shelltypes defines command system types for eggshell.
// This file contains parameter descriptors, operations, bound arguments and the
// structured help information consumed by help renderers.
package shelltypes

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParamKind defines how a parameter receives its value from tokens.
type ParamKind int

const (
	// ParamPositional accepts a value by position or by name
	ParamPositional ParamKind = iota
	// ParamVarPositional collects every surplus positional token
	ParamVarPositional
	// ParamKeyword accepts a value by name only
	ParamKeyword
	// ParamVarKeyword collects every keyword token that matches no other parameter
	ParamVarKeyword
)

// String returns a human-readable representation of the parameter kind.
func (k ParamKind) String() string {
	switch k {
	case ParamPositional:
		return "positional"
	case ParamVarPositional:
		return "variadic"
	case ParamKeyword:
		return "keyword"
	case ParamVarKeyword:
		return "variadic-keyword"
	default:
		return "unknown"
	}
}

// Param is the static descriptor of one operation parameter.
type Param struct {
	Name       string
	Kind       ParamKind
	Type       *Type // nil means untyped, tokens stay strings
	Default    any
	HasDefault bool
}

// Required reports whether binding fails when the parameter receives no token.
func (p Param) Required() bool {
	return (p.Kind == ParamPositional || p.Kind == ParamKeyword) && !p.HasDefault
}

// String renders the parameter the way help and completion listings show it,
// e.g. "name:string=\"Anon\"", "*digits:int" or "**opts".
func (p Param) String() string {
	var b strings.Builder
	switch p.Kind {
	case ParamVarPositional:
		b.WriteString("*")
	case ParamVarKeyword:
		b.WriteString("**")
	}
	b.WriteString(p.Name)
	if p.Type != nil {
		b.WriteString(":")
		b.WriteString(p.Type.String())
	}
	if p.HasDefault {
		b.WriteString("=")
		b.WriteString(FormatDefault(p.Default))
	}
	return b.String()
}

// FormatDefault renders a default value for help text.
func FormatDefault(v any) string {
	switch d := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", d)
	default:
		return fmt.Sprintf("%v", d)
	}
}

// Positional declares a positional-or-keyword parameter.
func Positional(name string, t *Type) Param {
	return Param{Name: name, Kind: ParamPositional, Type: t}
}

// PositionalDefault declares a positional-or-keyword parameter with a default value.
func PositionalDefault(name string, t *Type, def any) Param {
	return Param{Name: name, Kind: ParamPositional, Type: t, Default: def, HasDefault: true}
}

// Variadic declares a parameter collecting surplus positional tokens.
func Variadic(name string, t *Type) Param {
	return Param{Name: name, Kind: ParamVarPositional, Type: t}
}

// Keyword declares a keyword-only parameter.
func Keyword(name string, t *Type) Param {
	return Param{Name: name, Kind: ParamKeyword, Type: t}
}

// KeywordDefault declares a keyword-only parameter with a default value.
func KeywordDefault(name string, t *Type, def any) Param {
	return Param{Name: name, Kind: ParamKeyword, Type: t, Default: def, HasDefault: true}
}

// VarKeyword declares a parameter collecting unmatched keyword tokens.
func VarKeyword(name string, t *Type) Param {
	return Param{Name: name, Kind: ParamVarKeyword, Type: t}
}

// OperationFunc is the body of a command. It receives the bound, type-cast arguments.
type OperationFunc func(args *Args) (any, error)

// Operation is an invocable function together with its static parameter table.
type Operation struct {
	Name   string
	Doc    string
	Params []Param
	Fn     OperationFunc
}

// Summary returns the first line of the operation documentation.
func (o Operation) Summary() string {
	line, _, _ := strings.Cut(strings.TrimSpace(o.Doc), "\n")
	return strings.TrimSpace(line)
}

// Validate checks the parameter table the same way a function signature would be
// checked by a compiler: unique names, ordering of kinds, and defaults.
func (o Operation) Validate() error {
	if o.Fn == nil {
		return fmt.Errorf("operation %q has no function", o.Name)
	}
	return ValidateParams(o.Params)
}

// ValidateParams checks a parameter table for structural errors.
func ValidateParams(params []Param) error {
	seen := make(map[string]bool, len(params))
	var (
		sawDefault    bool
		sawVarPos     bool
		sawKeywordish bool
		sawVarKw      bool
	)
	for _, p := range params {
		if p.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		if sawVarKw {
			return fmt.Errorf("parameter %q follows variadic keyword parameter", p.Name)
		}
		if err := p.Type.Validate(); err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}

		switch p.Kind {
		case ParamPositional:
			if sawVarPos || sawKeywordish {
				return fmt.Errorf("positional parameter %q follows variadic or keyword parameters", p.Name)
			}
			if p.HasDefault {
				sawDefault = true
			} else if sawDefault {
				return fmt.Errorf("required parameter %q follows parameter with default", p.Name)
			}
		case ParamVarPositional:
			if sawVarPos {
				return fmt.Errorf("more than one variadic parameter")
			}
			if p.HasDefault {
				return fmt.Errorf("variadic parameter %q cannot have a default", p.Name)
			}
			sawVarPos = true
		case ParamKeyword:
			sawKeywordish = true
		case ParamVarKeyword:
			if p.HasDefault {
				return fmt.Errorf("variadic keyword parameter %q cannot have a default", p.Name)
			}
			sawVarKw = true
		default:
			return fmt.Errorf("parameter %q has unknown kind %d", p.Name, p.Kind)
		}
	}
	return nil
}

// Args is a bound call: the ready-to-invoke positional and keyword values, the same
// values addressed by parameter name, and the raw tokens they came from.
type Args struct {
	// Positional holds positional parameter values in declaration order followed by Rest
	Positional []any
	// Keyword holds keyword-only values and the Extra entries
	Keyword map[string]any
	// Values maps every bound parameter name to its value, defaults included
	Values map[string]any
	// Rest holds the values collected by the variadic parameter
	Rest []any
	// Extra holds the values collected by the variadic keyword parameter
	Extra map[string]any

	RawPositional []string
	RawKeyword    map[string]string
}

// NewArgs creates an empty bound call.
func NewArgs() *Args {
	return &Args{
		Keyword:    make(map[string]any),
		Values:     make(map[string]any),
		Extra:      make(map[string]any),
		RawKeyword: make(map[string]string),
	}
}

// Has reports whether a value (supplied or default) is bound to name.
func (a *Args) Has(name string) bool {
	_, ok := a.Values[name]
	return ok
}

// Get returns the value bound to name, or nil.
func (a *Args) Get(name string) any {
	return a.Values[name]
}

// String returns the value bound to name as a string.
func (a *Args) String(name string) string {
	switch v := a.Values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value bound to name as an int, or 0 if it is not an int.
func (a *Args) Int(name string) int {
	v, _ := a.Values[name].(int)
	return v
}

// Float returns the value bound to name as a float64, or 0 if it is not numeric.
func (a *Args) Float(name string) float64 {
	switch v := a.Values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the value bound to name as a bool, or false if it is not a bool.
func (a *Args) Bool(name string) bool {
	v, _ := a.Values[name].(bool)
	return v
}

// Ints returns the variadic values that are ints, in order.
func (a *Args) Ints() []int {
	out := make([]int, 0, len(a.Rest))
	for _, v := range a.Rest {
		if n, ok := v.(int); ok {
			out = append(out, n)
		}
	}
	return out
}

// Decode copies the bound values into out, which must be a pointer to a struct or map.
// Struct fields are matched by their `arg` tag or, failing that, by name.
func (a *Args) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "arg",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(a.Values); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}

// Tokenizer splits the argument text of a command line into tokens.
type Tokenizer interface {
	Tokenize(raw string) ([]string, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(raw string) ([]string, error)

// Tokenize calls f(raw).
func (f TokenizerFunc) Tokenize(raw string) ([]string, error) {
	return f(raw)
}

// Binder maps tokens onto a parameter table.
type Binder interface {
	Bind(params []Param, tokens []string) (*Args, error)
}

// HelpInfo represents structured help information for a command.
// Renderers consume it; the registry only supplies the data.
type HelpInfo struct {
	Command     string       `json:"command" yaml:"command"`
	Description string       `json:"description" yaml:"description"`
	Doc         string       `json:"doc,omitempty" yaml:"doc,omitempty"`
	Usage       string       `json:"usage,omitempty" yaml:"usage,omitempty"`
	Arguments   []string     `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Options     []HelpOption `json:"options,omitempty" yaml:"options,omitempty"`
	Visible     bool         `json:"visible" yaml:"visible"`
}

// HelpOption represents a command parameter with detailed information.
type HelpOption struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
}
