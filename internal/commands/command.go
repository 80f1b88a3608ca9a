package commands

import (
	"strings"

	"eggshell/pkg/shelltypes"
)

// Command is a registered operation together with its dispatch and help metadata.
// Everything except visibility is fixed at registration.
type Command struct {
	Key               string
	Operation         shelltypes.Operation
	Handler           Handler
	Usage             string
	ShortDescription  string
	NestedCompletions any
	NestedMeta        map[string]string

	visible bool
}

// Option configures a command at registration.
type Option func(*Command)

// WithKey sets the command key. Without it the operation name is used.
func WithKey(key string) Option {
	return func(c *Command) { c.Key = key }
}

// WithDescription sets the short description shown in completions and help listings.
func WithDescription(description string) Option {
	return func(c *Command) { c.ShortDescription = description }
}

// WithUsage sets the usage text shown by single-command help.
func WithUsage(usage string) Option {
	return func(c *Command) { c.Usage = usage }
}

// WithHandler replaces the default tokenizer and binder pair.
func WithHandler(h Handler) Option {
	return func(c *Command) { c.Handler = h }
}

// Hidden registers the command as invisible.
func Hidden() Option {
	return func(c *Command) { c.visible = false }
}

// WithNestedCompletions attaches a tree of follow-up completion hints and their
// descriptions. The tree is opaque to the registry and passed through to the
// line editor adapter.
func WithNestedCompletions(tree any, meta map[string]string) Option {
	return func(c *Command) {
		c.NestedCompletions = tree
		c.NestedMeta = meta
	}
}

// Visible reports whether the command can be looked up, completed and listed.
func (c *Command) Visible() bool {
	return c.visible
}

// Doc returns the operation documentation with surrounding whitespace removed.
func (c *Command) Doc() string {
	return strings.TrimSpace(c.Operation.Doc)
}

// Summary returns the short description, falling back to the first documentation line.
func (c *Command) Summary() string {
	if c.ShortDescription != "" {
		return c.ShortDescription
	}
	return c.Operation.Summary()
}

// Arguments returns the rendered parameter list, e.g. "name:string=\"Anon\"".
func (c *Command) Arguments() []string {
	out := make([]string, len(c.Operation.Params))
	for i, p := range c.Operation.Params {
		out[i] = p.String()
	}
	return out
}

// Description returns "(args) - summary", dropping whichever part is empty.
func (c *Command) Description() string {
	args := strings.Join(c.Arguments(), ", ")
	summary := c.Summary()
	switch {
	case args != "" && summary != "":
		return "(" + args + ") - " + summary
	case summary != "":
		return summary
	default:
		return "(" + args + ")"
	}
}

// Completion returns the completion entry of the command.
func (c *Command) Completion() shelltypes.Completion {
	return shelltypes.Completion{
		Label:       c.Key,
		Description: c.Description(),
		Nested:      c.NestedCompletions,
		Meta:        c.NestedMeta,
	}
}

// HelpInfo returns structured help information for the command.
func (c *Command) HelpInfo() shelltypes.HelpInfo {
	options := make([]shelltypes.HelpOption, len(c.Operation.Params))
	for i, p := range c.Operation.Params {
		opt := shelltypes.HelpOption{
			Name:     p.Name,
			Kind:     p.Kind.String(),
			Type:     p.Type.String(),
			Required: p.Required(),
		}
		if p.HasDefault {
			opt.Default = shelltypes.FormatDefault(p.Default)
		}
		options[i] = opt
	}
	return shelltypes.HelpInfo{
		Command:     c.Key,
		Description: c.Summary(),
		Doc:         c.Doc(),
		Usage:       c.Usage,
		Arguments:   c.Arguments(),
		Options:     options,
		Visible:     c.visible,
	}
}
