package commands

import (
	"eggshell/pkg/shelltypes"
)

// HelpRenderer renders help data for the help builtin.
type HelpRenderer interface {
	// RenderListing renders the application documentation followed by every command.
	RenderListing(doc string, infos []shelltypes.HelpInfo) string
	// RenderCommand renders the help of a single command.
	RenderCommand(info shelltypes.HelpInfo) string
}

// HelpOperation returns the help builtin. Without an argument it renders every
// visible command; with a key it renders that command, or fails with a
// *shelltypes.CommandNotFoundError when the key is unknown or hidden.
func HelpOperation(r *Registry, doc func() string, renderer HelpRenderer) shelltypes.Operation {
	return shelltypes.Operation{
		Name: "help",
		Doc:  "Show help for all commands, or for the given command.",
		Params: []shelltypes.Param{
			shelltypes.PositionalDefault("key", nil, nil),
		},
		Fn: func(args *shelltypes.Args) (any, error) {
			key, _ := args.Get("key").(string)
			if key == "" {
				text := ""
				if doc != nil {
					text = doc()
				}
				return renderer.RenderListing(text, r.HelpInfos()), nil
			}
			cmd, err := r.Get(key)
			if err != nil {
				return nil, err
			}
			return renderer.RenderCommand(cmd.HelpInfo()), nil
		},
	}
}

// ExitOperation returns the exit builtin. It fails with shelltypes.ErrExit, which the
// loop treats like an interrupt.
func ExitOperation() shelltypes.Operation {
	return shelltypes.Operation{
		Name: "exit",
		Doc:  "Exit from this application.",
		Fn: func(*shelltypes.Args) (any, error) {
			return nil, shelltypes.ErrExit
		},
	}
}

// InstallBuiltins registers the help and exit builtins under keys that are still free.
func (r *Registry) InstallBuiltins(doc func() string, renderer HelpRenderer) error {
	if !r.Has("help") {
		if _, err := r.Register(HelpOperation(r, doc, renderer), WithUsage("help; help exit")); err != nil {
			return err
		}
	}
	if !r.Has("exit") {
		if _, err := r.Register(ExitOperation()); err != nil {
			return err
		}
	}
	return nil
}
