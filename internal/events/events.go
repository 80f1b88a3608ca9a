// Package events provides the hooks the eggshell loop calls around command
// execution, and their default behaviors.
package events

import (
	"errors"
	"fmt"
	"reflect"

	"eggshell/internal/caster"
	"eggshell/internal/output"
	"eggshell/internal/suggest"
	"eggshell/pkg/shelltypes"
)

// Hooks are the loop callbacks. A nil hook is skipped; a nil Interrupt or EOF
// hook means exit without asking.
type Hooks struct {
	// Startup hooks run in order before the first prompt.
	Startup []func()
	// Close hooks run in order after the loop stops.
	Close []func()

	// Interrupt is called on Ctrl-C and on the exit builtin. Returning true stops the loop.
	Interrupt func() bool
	// EOF is called at end of input. Returning true stops the loop.
	EOF func() bool

	// NotFound is called for an unknown or hidden key.
	NotFound func(key, args string)
	// Suggest is called after NotFound with the visible keys. Nil disables suggestions.
	Suggest func(key string, candidates []string)
	// Complete is called with the result of every successful command.
	Complete func(result any)

	// ParseError is called when the argument text cannot be tokenized.
	ParseError func(key, args string, err *shelltypes.ParseError)
	// TooManyArguments is called when surplus positional arguments are given.
	TooManyArguments func(key, args string, err *shelltypes.TooManyArgumentsError)
	// ArgumentValue is called for missing, unexpected or uncastable arguments.
	ArgumentValue func(key, args string, err *shelltypes.ArgumentValueError)
	// Runtime is called when the operation itself fails and no error handler recovered.
	Runtime func(key, args string, err error)
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(question string) bool { return f(question) }

// ExitQuestion is asked by the default Interrupt and EOF hooks.
const ExitQuestion = "Exit?"

// Defaults returns hooks that print through p and ask c before exiting.
// With a nil c the loop exits without asking.
func Defaults(p *output.Printer, c Confirmer) *Hooks {
	h := &Hooks{
		NotFound: func(key, _ string) {
			p.Error(fmt.Sprintf("command %s not found", p.Styled(output.SemanticCommand, key)))
		},
		Suggest: func(key string, candidates []string) {
			if s, ok := suggest.Closest(key, candidates); ok {
				p.Println(fmt.Sprintf("Did you mean: %s ?", p.Styled(output.SemanticHighlight, s)))
			}
		},
		Complete: func(result any) {
			if text, ok := Render(result); ok {
				p.Result(text)
			}
		},
		ParseError: func(key, _ string, err *shelltypes.ParseError) {
			p.Error(fmt.Sprintf("%s: %v", key, err))
		},
		TooManyArguments: func(key, _ string, err *shelltypes.TooManyArgumentsError) {
			p.Error(fmt.Sprintf("%s %v", key, err))
		},
		ArgumentValue: func(key, _ string, err *shelltypes.ArgumentValueError) {
			p.Error(fmt.Sprintf("%s: %v", key, err))
		},
		Runtime: func(key, _ string, err error) {
			var rt *shelltypes.RuntimeError
			if errors.As(err, &rt) {
				err = rt.Err
			}
			p.Error(fmt.Sprintf("%s: %v", key, err))
		},
	}
	if c != nil {
		ask := func() bool { return c.Confirm(ExitQuestion) }
		h.Interrupt = ask
		h.EOF = ask
	}
	return h
}

// HandleError routes a failure of Registry.Execute to its hook and reports
// whether the loop should stop. Not-found errors are reported under the key
// they name, which differs from key when a command such as help looked it up.
// keys supplies the visible command keys for suggestions and is only called
// when needed.
func (h *Hooks) HandleError(key, args string, err error, keys func() []string) bool {
	switch shelltypes.Classify(err) {
	case shelltypes.ClassNone:
		return false
	case shelltypes.ClassInterrupt, shelltypes.ClassExit:
		return h.OnInterrupt()
	case shelltypes.ClassEOF:
		return h.OnEOF()
	case shelltypes.ClassNotFound:
		var nf *shelltypes.CommandNotFoundError
		if errors.As(err, &nf) && nf.Key != "" {
			key = nf.Key
		}
		if h.NotFound != nil {
			h.NotFound(key, args)
		}
		if h.Suggest != nil && keys != nil {
			h.Suggest(key, keys())
		}
	case shelltypes.ClassParse:
		var pe *shelltypes.ParseError
		if errors.As(err, &pe) && h.ParseError != nil {
			h.ParseError(key, args, pe)
		}
	case shelltypes.ClassTooManyArguments:
		var te *shelltypes.TooManyArgumentsError
		if errors.As(err, &te) && h.TooManyArguments != nil {
			h.TooManyArguments(key, args, te)
		}
	case shelltypes.ClassArgumentValue:
		var ae *shelltypes.ArgumentValueError
		if errors.As(err, &ae) && h.ArgumentValue != nil {
			h.ArgumentValue(key, args, ae)
		}
	default:
		if h.Runtime != nil {
			h.Runtime(key, args, err)
		}
	}
	return false
}

// OnInterrupt runs the Interrupt hook.
func (h *Hooks) OnInterrupt() bool {
	if h.Interrupt == nil {
		return true
	}
	return h.Interrupt()
}

// OnEOF runs the EOF hook.
func (h *Hooks) OnEOF() bool {
	if h.EOF == nil {
		return true
	}
	return h.EOF()
}

// OnComplete runs the Complete hook.
func (h *Hooks) OnComplete(result any) {
	if h.Complete != nil {
		h.Complete(result)
	}
}

// RunStartup runs the startup hooks in order.
func (h *Hooks) RunStartup() {
	for _, fn := range h.Startup {
		fn()
	}
}

// RunClose runs the close hooks in order.
func (h *Hooks) RunClose() {
	for _, fn := range h.Close {
		fn()
	}
}

// Render returns the text printed for a command result, and false when the
// result is empty: nil, false, zero numbers, empty strings and empty collections.
func Render(result any) (string, bool) {
	if result == nil {
		return "", false
	}
	rv := reflect.ValueOf(result)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		if rv.Len() == 0 {
			return "", false
		}
	case reflect.Bool:
		if !rv.Bool() {
			return "", false
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
	default:
		if rv.CanInt() && rv.Int() == 0 || rv.CanUint() && rv.Uint() == 0 || rv.CanFloat() && rv.Float() == 0 {
			return "", false
		}
	}
	if s, ok := result.(fmt.Stringer); ok {
		return s.String(), true
	}
	if text, ok := result.(string); ok {
		return text, true
	}
	if rv.Kind() == reflect.Struct {
		return fmt.Sprint(result), true
	}
	return caster.Format(result), true
}
