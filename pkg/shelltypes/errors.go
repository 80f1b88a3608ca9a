// Package shelltypes defines the error taxonomy for eggshell.
// This file contains the classified errors produced by command lookup, tokenizing,
// binding and invocation, and the classification used by the interactive loop.
package shelltypes

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInterrupt is returned by line readers when the user presses Ctrl-C.
	ErrInterrupt = errors.New("interrupt")
	// ErrExit is returned by the exit builtin to request the loop to stop.
	ErrExit = errors.New("exit requested")
)

// CommandNotFoundError is returned when no visible command has the requested key.
type CommandNotFoundError struct {
	Key string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.Key)
}

// ParseError is returned when the argument text cannot be tokenized.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse arguments %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TooManyArgumentsError is returned when more positional tokens are supplied than the
// operation accepts.
type TooManyArgumentsError struct {
	Accepted int
	Given    int
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("takes %d positional arguments but %d were given", e.Accepted, e.Given)
}

// ArgumentValueError is returned when a token cannot be bound or cast to its parameter.
// Missing required parameters and unexpected keywords are reported with an empty Token.
type ArgumentValueError struct {
	Param string
	Token string
	Type  string
	Err   error
}

func (e *ArgumentValueError) Error() string {
	switch {
	case e.Type != "" && e.Err != nil:
		return fmt.Sprintf("invalid value %q for argument %s (%s): %v", e.Token, e.Param, e.Type, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("argument %s: %v", e.Param, e.Err)
	default:
		return fmt.Sprintf("invalid argument %s", e.Param)
	}
}

func (e *ArgumentValueError) Unwrap() error { return e.Err }

// RuntimeError wraps a failure raised by an operation that no error handler claimed.
type RuntimeError struct {
	Key       string
	Operation string
	Err       error
	Stack     string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Key, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// DuplicateCommandError is returned when a key is registered twice.
type DuplicateCommandError struct {
	Keys []string
}

func (e *DuplicateCommandError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("command %s already registered", e.Keys[0])
	}
	return fmt.Sprintf("commands already registered: %s", strings.Join(e.Keys, ", "))
}

// PanicError carries a value recovered from a panicking operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorClass groups errors by the loop policy that applies to them.
type ErrorClass int

const (
	// ClassNone is the class of a nil error
	ClassNone ErrorClass = iota
	ClassNotFound
	ClassParse
	ClassTooManyArguments
	ClassArgumentValue
	ClassRuntime
	ClassInterrupt
	ClassEOF
	ClassExit
)

// String returns a human-readable name of the class.
func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassNotFound:
		return "not-found"
	case ClassParse:
		return "parse"
	case ClassTooManyArguments:
		return "too-many-arguments"
	case ClassArgumentValue:
		return "argument-value"
	case ClassRuntime:
		return "runtime"
	case ClassInterrupt:
		return "interrupt"
	case ClassEOF:
		return "eof"
	case ClassExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Classify returns the class of err. Errors outside the taxonomy are runtime errors,
// and a signal wrapped in a RuntimeError stays a runtime error.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}

	var (
		notFound *CommandNotFoundError
		parse    *ParseError
		tooMany  *TooManyArgumentsError
		argValue *ArgumentValueError
		runtime  *RuntimeError
	)
	switch {
	case errors.As(err, &runtime):
		return ClassRuntime
	case errors.Is(err, ErrInterrupt):
		return ClassInterrupt
	case errors.Is(err, io.EOF):
		return ClassEOF
	case errors.Is(err, ErrExit):
		return ClassExit
	case errors.As(err, &notFound):
		return ClassNotFound
	case errors.As(err, &parse):
		return ClassParse
	case errors.As(err, &tooMany):
		return ClassTooManyArguments
	case errors.As(err, &argValue):
		return ClassArgumentValue
	default:
		return ClassRuntime
	}
}

// IsSignal reports whether err is an interrupt, end of input or exit request.
func IsSignal(err error) bool {
	switch Classify(err) {
	case ClassInterrupt, ClassEOF, ClassExit:
		return true
	default:
		return false
	}
}
