// Package binder maps command tokens onto operation parameter tables for eggshell.
//
// Tokens of the form key=value bind by name, everything else binds by position.
// A literal '=' can be kept in a token by escaping it as \=. After the structural
// bind every supplied value is converted with the parameter's declared type;
// defaults are used as declared and never converted.
package binder

import (
	"errors"
	"strings"

	"eggshell/internal/caster"
	"eggshell/pkg/shelltypes"
)

var (
	// ErrMissingArgument is wrapped by ArgumentValueError when a required parameter has no token.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrUnexpectedKeyword is wrapped by ArgumentValueError when a keyword matches no parameter.
	ErrUnexpectedKeyword = errors.New("unexpected keyword argument")
	// ErrMultipleValues is wrapped by ArgumentValueError when a parameter is given by position and by name.
	ErrMultipleValues = errors.New("got multiple values for argument")
)

// ArgBinder binds tokens to parameters.
type ArgBinder struct {
	cast          bool
	splitKeywords bool
}

// New returns the default binder: keyword splitting and type conversion enabled.
func New() *ArgBinder {
	return &ArgBinder{cast: true, splitKeywords: true}
}

// Raw returns a binder that splits keywords but keeps every value as its raw string.
func Raw() *ArgBinder {
	return &ArgBinder{splitKeywords: true}
}

// Verbatim returns a binder that binds every token by position and keeps it as is.
func Verbatim() *ArgBinder {
	return &ArgBinder{}
}

type keywordToken struct {
	key   string
	value string
}

// Split separates tokens into positional tokens and keyword tokens. For a key given
// more than once the last value wins; keys keep the order of their first appearance.
func Split(tokens []string) (positional []string, keys []string, keywords map[string]string) {
	keywords = make(map[string]string)
	positional = []string{}
	for _, tok := range tokens {
		if kw, ok := splitKeyword(tok); ok {
			if _, seen := keywords[kw.key]; !seen {
				keys = append(keys, kw.key)
			}
			keywords[kw.key] = kw.value
			continue
		}
		positional = append(positional, unescape(tok))
	}
	return positional, keys, keywords
}

// splitKeyword reports whether tok is key=value with a non-empty key, using the
// first '=' that is not escaped.
func splitKeyword(tok string) (keywordToken, bool) {
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '\\':
			if i+1 < len(tok) && tok[i+1] == '=' {
				i++
			}
		case '=':
			if i == 0 {
				return keywordToken{}, false
			}
			return keywordToken{key: unescape(tok[:i]), value: unescape(tok[i+1:])}, true
		}
	}
	return keywordToken{}, false
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\=`, "=")
}

type boundValue struct {
	raw      string
	supplied bool
}

// Bind maps tokens onto params and, for the default binder, converts the values.
func (b *ArgBinder) Bind(params []shelltypes.Param, tokens []string) (*shelltypes.Args, error) {
	args := shelltypes.NewArgs()

	var (
		positional []string
		keys       []string
		keywords   map[string]string
	)
	if b.splitKeywords {
		positional, keys, keywords = Split(tokens)
	} else {
		positional = append([]string{}, tokens...)
		keywords = map[string]string{}
	}
	args.RawPositional = positional
	args.RawKeyword = keywords

	var (
		named     []shelltypes.Param
		posParams []shelltypes.Param
		varPos    *shelltypes.Param
		varKw     *shelltypes.Param
		byName    = make(map[string]shelltypes.Param, len(params))
	)
	for i := range params {
		p := params[i]
		byName[p.Name] = p
		switch p.Kind {
		case shelltypes.ParamPositional:
			named = append(named, p)
			posParams = append(posParams, p)
		case shelltypes.ParamKeyword:
			named = append(named, p)
		case shelltypes.ParamVarPositional:
			varPos = &params[i]
		case shelltypes.ParamVarKeyword:
			varKw = &params[i]
		}
	}

	bound := make(map[string]boundValue, len(params))
	var rest []string
	for i, tok := range positional {
		switch {
		case i < len(posParams):
			bound[posParams[i].Name] = boundValue{raw: tok, supplied: true}
		case varPos != nil:
			rest = append(rest, tok)
		default:
			return nil, &shelltypes.TooManyArgumentsError{Accepted: len(posParams), Given: len(positional)}
		}
	}

	var extraKeys []string
	extra := make(map[string]string)
	for _, key := range keys {
		value := keywords[key]
		p, ok := byName[key]
		if ok && (p.Kind == shelltypes.ParamPositional || p.Kind == shelltypes.ParamKeyword) {
			if bound[key].supplied {
				return nil, &shelltypes.ArgumentValueError{Param: key, Token: value, Err: ErrMultipleValues}
			}
			bound[key] = boundValue{raw: value, supplied: true}
			continue
		}
		if varKw == nil {
			return nil, &shelltypes.ArgumentValueError{Param: key, Token: value, Err: ErrUnexpectedKeyword}
		}
		extraKeys = append(extraKeys, key)
		extra[key] = value
	}

	for _, p := range named {
		if bound[p.Name].supplied {
			continue
		}
		if !p.HasDefault {
			return nil, &shelltypes.ArgumentValueError{Param: p.Name, Err: ErrMissingArgument}
		}
	}

	for _, p := range named {
		bv := bound[p.Name]
		var value any
		if bv.supplied {
			v, err := b.convert(p, bv.raw)
			if err != nil {
				return nil, err
			}
			value = v
		} else {
			value = p.Default
		}
		args.Values[p.Name] = value
		if p.Kind == shelltypes.ParamPositional {
			args.Positional = append(args.Positional, value)
		} else {
			args.Keyword[p.Name] = value
		}
	}

	if varPos != nil {
		args.Rest = make([]any, 0, len(rest))
		for _, tok := range rest {
			v, err := b.convert(*varPos, tok)
			if err != nil {
				return nil, err
			}
			args.Rest = append(args.Rest, v)
		}
		args.Positional = append(args.Positional, args.Rest...)
		args.Values[varPos.Name] = args.Rest
	}

	if varKw != nil {
		for _, key := range extraKeys {
			v, err := b.convert(*varKw, extra[key])
			if err != nil {
				return nil, err
			}
			args.Extra[key] = v
			args.Keyword[key] = v
		}
		args.Values[varKw.Name] = args.Extra
	}

	return args, nil
}

func (b *ArgBinder) convert(p shelltypes.Param, raw string) (any, error) {
	if !b.cast {
		return raw, nil
	}
	v, err := caster.Cast(p.Type, raw)
	if err != nil {
		return nil, &shelltypes.ArgumentValueError{Param: p.Name, Token: raw, Type: p.Type.String(), Err: err}
	}
	return v, nil
}
