package shell

import (
	"fmt"

	"eggshell/internal/commands"
	"eggshell/internal/fsm"
	"eggshell/pkg/shelltypes"
)

// Blueprint is a detachable set of commands, state groups and lifecycle hooks
// that an App merges in with RegisterBlueprint.
type Blueprint struct {
	Name     string
	Commands *commands.Registry
	FSM      *fsm.Controller
	Startup  []func()
	Close    []func()
}

// NewBlueprint creates an empty blueprint.
func NewBlueprint(name string) *Blueprint {
	return &Blueprint{
		Name:     name,
		Commands: commands.NewRegistry(),
		FSM:      fsm.NewController(),
	}
}

// OnStartup appends a startup hook.
func (b *Blueprint) OnStartup(fn func()) {
	b.Startup = append(b.Startup, fn)
}

// OnClose appends a close hook.
func (b *Blueprint) OnClose(fn func()) {
	b.Close = append(b.Close, fn)
}

// RegisterBlueprint merges the commands, state groups and hooks of each blueprint
// in order. A key or state handler already present in the app rejects that
// blueprint; blueprints merged before it stay registered. Once merged, the
// blueprint's Commands and FSM are the app's, so commands that reach them
// through the blueprint act on the running app.
func (a *App) RegisterBlueprint(bps ...*Blueprint) error {
	for _, bp := range bps {
		if bp == nil {
			continue
		}
		var taken []string
		for _, cmd := range bp.Commands.All() {
			if a.Commands.Has(cmd.Key) {
				taken = append(taken, cmd.Key)
			}
		}
		if len(taken) > 0 {
			return fmt.Errorf("failed to register blueprint %s: %w", bp.Name, &shelltypes.DuplicateCommandError{Keys: taken})
		}
		if err := a.FSM.Merge(bp.FSM); err != nil {
			return fmt.Errorf("failed to register blueprint %s: %w", bp.Name, err)
		}
		if err := a.Commands.Merge(bp.Commands, false); err != nil {
			return fmt.Errorf("failed to register blueprint %s: %w", bp.Name, err)
		}
		a.Hooks.Startup = append(a.Hooks.Startup, bp.Startup...)
		a.Hooks.Close = append(a.Hooks.Close, bp.Close...)
		a.logger.Debug("Registered blueprint", "blueprint", bp.Name, "commands", len(bp.Commands.All()))
		bp.Commands = a.Commands
		bp.FSM = a.FSM
	}
	return nil
}
