// Package commands provides command registration and execution functionality for eggshell.
// It manages a registry of commands, dispatches argument text through each command's
// tokenizer and binder, classifies failures and routes runtime failures to error handlers.
package commands

import (
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/charmbracelet/log"

	"eggshell/internal/logger"
	"eggshell/pkg/shelltypes"
)

// Registry manages command registration, lookup and execution.
// It is not safe for concurrent use; the interactive loop drives it from one goroutine.
type Registry struct {
	commands map[string]*Command
	handlers map[*Command][]*ErrorHandler
	logger   *log.Logger
}

// NewRegistry creates a new command registry with an empty command map.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		handlers: make(map[*Command][]*ErrorHandler),
		logger:   logger.NewStyledLogger("Dispatcher"),
	}
}

// Register adds an operation to the registry. The key defaults to the operation name.
// Returns an error if the key is empty, the parameter table is invalid, or a command
// with the same key is already registered; the registry is unchanged in every case.
func (r *Registry) Register(op shelltypes.Operation, opts ...Option) (*Command, error) {
	cmd := &Command{
		Key:       op.Name,
		Operation: op,
		Handler:   DefaultHandler(),
		visible:   true,
	}
	for _, opt := range opts {
		opt(cmd)
	}

	if cmd.Key == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command %s: %w", cmd.Key, err)
	}
	if _, exists := r.commands[cmd.Key]; exists {
		return nil, &shelltypes.DuplicateCommandError{Keys: []string{cmd.Key}}
	}

	r.commands[cmd.Key] = cmd
	r.logger.Debug("Registered command", "command", cmd.Key, "params", len(op.Params))
	return cmd, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(op shelltypes.Operation, opts ...Option) *Command {
	cmd, err := r.Register(op, opts...)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Get retrieves a visible command by key. Returns a *shelltypes.CommandNotFoundError
// if the command is absent or hidden.
func (r *Registry) Get(key string) (*Command, error) {
	cmd, ok := r.commands[key]
	if !ok || !cmd.visible {
		return nil, &shelltypes.CommandNotFoundError{Key: key}
	}
	return cmd, nil
}

// Lookup retrieves a command by key regardless of its visibility.
func (r *Registry) Lookup(key string) (*Command, bool) {
	cmd, ok := r.commands[key]
	return cmd, ok
}

// Has reports whether a command, visible or not, is registered under key.
func (r *Registry) Has(key string) bool {
	_, ok := r.commands[key]
	return ok
}

// Remove deletes the command under key together with its error handler bindings.
func (r *Registry) Remove(key string) error {
	cmd, ok := r.commands[key]
	if !ok {
		return &shelltypes.CommandNotFoundError{Key: key}
	}
	delete(r.commands, key)
	delete(r.handlers, cmd)
	return nil
}

// SetVisible shows or hides the command under key.
func (r *Registry) SetVisible(key string, visible bool) error {
	cmd, ok := r.commands[key]
	if !ok {
		return &shelltypes.CommandNotFoundError{Key: key}
	}
	cmd.visible = visible
	r.logger.Debug("Changed visibility", "command", key, "visible", visible)
	return nil
}

// All returns every registered command sorted by key.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Visible returns the visible commands sorted by key.
func (r *Registry) Visible() []*Command {
	all := r.All()
	out := all[:0]
	for _, cmd := range all {
		if cmd.visible {
			out = append(out, cmd)
		}
	}
	return out
}

// VisibleKeys returns the keys of the visible commands in sorted order.
func (r *Registry) VisibleKeys() []string {
	visible := r.Visible()
	keys := make([]string, len(visible))
	for i, cmd := range visible {
		keys[i] = cmd.Key
	}
	return keys
}

// Completions returns completion entries for the visible commands.
func (r *Registry) Completions() []shelltypes.Completion {
	visible := r.Visible()
	out := make([]shelltypes.Completion, len(visible))
	for i, cmd := range visible {
		out[i] = cmd.Completion()
	}
	return out
}

// HelpInfos returns structured help for the visible commands.
func (r *Registry) HelpInfos() []shelltypes.HelpInfo {
	visible := r.Visible()
	out := make([]shelltypes.HelpInfo, len(visible))
	for i, cmd := range visible {
		out[i] = cmd.HelpInfo()
	}
	return out
}

// Execute runs the command under key with the given argument text.
//
// Lookup, tokenizing and binding failures are returned as their classified error
// types. A failure of the operation itself, including a recovered panic, is offered
// to the command's error handlers; the first matching handler provides the result.
// Unclaimed failures are returned as *shelltypes.RuntimeError. Classified errors and
// the exit, interrupt and end of input signals raised by an operation pass through
// unchanged.
func (r *Registry) Execute(key string, argsText string) (any, error) {
	cmd, err := r.Get(key)
	if err != nil {
		r.logger.Debug("Command lookup failed", "command", key)
		return nil, err
	}
	logger.CommandExecution(key, argsText)

	args, err := cmd.Handler.Handle(cmd.Operation.Params, argsText)
	if err != nil {
		r.logger.Debug("Argument handling failed", "command", key, "class", shelltypes.Classify(err), "error", err)
		return nil, err
	}

	result, stack, err := invoke(cmd.Operation, args)
	if err == nil {
		r.logger.Debug("Command completed", "command", key)
		return result, nil
	}
	if passesThrough(err) {
		return nil, err
	}

	for _, h := range r.handlers[cmd] {
		if h.Matches(err) {
			r.logger.Debug("Error handled", "command", key, "error", err)
			return h.fn(key, err, args.RawPositional, args.RawKeyword)
		}
	}

	r.logger.Debug("Command failed", "command", key, "error", err)
	return nil, &shelltypes.RuntimeError{Key: key, Operation: cmd.Operation.Name, Err: err, Stack: stack}
}

// invoke calls the operation, converting a panic into a *shelltypes.PanicError with
// the stack captured at the point of recovery.
func invoke(op shelltypes.Operation, args *shelltypes.Args) (result any, stack string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			stack = string(debug.Stack())
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("%w: %w", &shelltypes.PanicError{Value: rec}, e)
				return
			}
			err = &shelltypes.PanicError{Value: rec}
		}
	}()
	result, err = op.Fn(args)
	return result, "", err
}

func passesThrough(err error) bool {
	if shelltypes.IsSignal(err) {
		return true
	}
	switch shelltypes.Classify(err) {
	case shelltypes.ClassNotFound, shelltypes.ClassParse, shelltypes.ClassTooManyArguments, shelltypes.ClassArgumentValue:
		return true
	default:
		return false
	}
}

// Merge copies the commands of src, with their error handler bindings, into r.
// Without overwrite, a key present in both registries rejects the whole merge with a
// *shelltypes.DuplicateCommandError and nothing is copied.
func (r *Registry) Merge(src *Registry, overwrite bool) error {
	if src == nil || src == r {
		return nil
	}

	var collisions []string
	for key := range src.commands {
		if _, exists := r.commands[key]; exists {
			collisions = append(collisions, key)
		}
	}
	if len(collisions) > 0 && !overwrite {
		sort.Strings(collisions)
		return &shelltypes.DuplicateCommandError{Keys: collisions}
	}

	for key, cmd := range src.commands {
		if old, exists := r.commands[key]; exists {
			delete(r.handlers, old)
		}
		r.commands[key] = cmd
		if hs := src.handlers[cmd]; len(hs) > 0 {
			r.handlers[cmd] = append([]*ErrorHandler(nil), hs...)
		}
	}
	r.logger.Debug("Merged commands", "count", len(src.commands), "overwritten", len(collisions))
	return nil
}
