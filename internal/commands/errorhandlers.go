package commands

import (
	"errors"
	"fmt"

	"eggshell/pkg/shelltypes"
)

// ErrorKind matches the errors an error handler is interested in.
type ErrorKind func(err error) bool

// KindIs matches errors for which errors.Is(err, target) holds.
func KindIs(target error) ErrorKind {
	return func(err error) bool { return errors.Is(err, target) }
}

// KindOf matches errors for which errors.As finds a T in the chain.
func KindOf[T error]() ErrorKind {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// ErrorHandlerFunc recovers from a failed command. It receives the command key, the
// error and the raw tokens of the call. Its result and error replace the failure.
type ErrorHandlerFunc func(key string, err error, rawPositional []string, rawKeyword map[string]string) (any, error)

// ErrorHandler is a handle to an error handler created with Registry.OnError.
// It has no effect until it is bound to one or more commands.
type ErrorHandler struct {
	fn       ErrorHandlerFunc
	kinds    []ErrorKind
	registry *Registry
}

// Matches reports whether the handler accepts err. A handler created without
// kinds accepts every error.
func (h *ErrorHandler) Matches(err error) bool {
	if len(h.kinds) == 0 {
		return true
	}
	for _, kind := range h.kinds {
		if kind(err) {
			return true
		}
	}
	return false
}

// Bind attaches the handler to the commands registered under keys. Handlers are
// consulted in the order they were bound. Returns an error if a key is not registered;
// in that case no binding is made.
func (h *ErrorHandler) Bind(keys ...string) error {
	cmds := make([]*Command, 0, len(keys))
	for _, key := range keys {
		cmd, ok := h.registry.Lookup(key)
		if !ok {
			return fmt.Errorf("cannot bind error handler: %w", &shelltypes.CommandNotFoundError{Key: key})
		}
		cmds = append(cmds, cmd)
	}
	for _, cmd := range cmds {
		h.registry.handlers[cmd] = append(h.registry.handlers[cmd], h)
	}
	return nil
}

// OnError creates an error handler for the given kinds. Bind the returned handle
// to the commands it should cover.
func (r *Registry) OnError(fn ErrorHandlerFunc, kinds ...ErrorKind) *ErrorHandler {
	return &ErrorHandler{fn: fn, kinds: kinds, registry: r}
}

// RegisterErrorHandler creates an error handler and binds it to key.
func (r *Registry) RegisterErrorHandler(key string, fn ErrorHandlerFunc, kinds ...ErrorKind) (*ErrorHandler, error) {
	h := r.OnError(fn, kinds...)
	if err := h.Bind(key); err != nil {
		return nil, err
	}
	return h, nil
}

// ErrorHandlers returns the handlers bound to the command under key, in bind order.
func (r *Registry) ErrorHandlers(key string) []*ErrorHandler {
	cmd, ok := r.Lookup(key)
	if !ok {
		return nil
	}
	out := make([]*ErrorHandler, len(r.handlers[cmd]))
	copy(out, r.handlers[cmd])
	return out
}
