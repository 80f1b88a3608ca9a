// Package shell provides the eggshell application: the read-decide-act loop that
// reads a line, dispatches it through the command registry and reports the
// outcome through the event hooks, resuming any active state group between reads.
package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"eggshell/internal/commands"
	"eggshell/internal/console"
	"eggshell/internal/events"
	"eggshell/internal/fsm"
	"eggshell/internal/help"
	"eggshell/internal/logger"
	"eggshell/internal/output"
	"eggshell/pkg/shelltypes"
)

// DefaultPrompt is shown before every command line.
const DefaultPrompt = "~> "

// App is an interactive line-mode application.
type App struct {
	Name string
	// Prompt is shown before every command line.
	Prompt string
	// Intro is printed once when Run starts.
	Intro string
	// Documentation is shown above the command list by the help builtin.
	Documentation string

	Commands *commands.Registry
	FSM      *fsm.Controller
	Hooks    *events.Hooks
	// Ctx is shared by all commands of the application.
	Ctx map[string]any

	io      shelltypes.LineIO
	printer *output.Printer
	help    commands.HelpRenderer

	confirmExit bool
	suggest     bool
	batch       bool
	executed    int
	failed      int
	readErr     error

	logger *log.Logger
}

// Option configures an App.
type Option func(*App)

// WithIO sets the line adapter. The default reads stdin and writes stdout.
func WithIO(lio shelltypes.LineIO) Option {
	return func(a *App) { a.io = lio }
}

// WithPrinter sets the printer used by the default hooks. The default prints
// plain text through the line adapter.
func WithPrinter(p *output.Printer) Option {
	return func(a *App) { a.printer = p }
}

// WithHelpRenderer sets the renderer of the help builtin.
func WithHelpRenderer(r commands.HelpRenderer) Option {
	return func(a *App) { a.help = r }
}

// WithPrompt sets the command prompt.
func WithPrompt(prompt string) Option {
	return func(a *App) { a.Prompt = prompt }
}

// WithIntro sets the text printed when the loop starts.
func WithIntro(intro string) Option {
	return func(a *App) { a.Intro = intro }
}

// WithDocumentation sets the application documentation shown by help.
func WithDocumentation(doc string) Option {
	return func(a *App) { a.Documentation = doc }
}

// WithConfirmExit controls whether interrupt and end of input ask before exiting.
func WithConfirmExit(confirm bool) Option {
	return func(a *App) { a.confirmExit = confirm }
}

// WithSuggest controls the "did you mean" hint after an unknown command.
func WithSuggest(suggest bool) Option {
	return func(a *App) { a.suggest = suggest }
}

// WithHooks replaces the default hooks.
func WithHooks(h *events.Hooks) Option {
	return func(a *App) { a.Hooks = h }
}

// New creates an application with an empty registry and controller.
func New(name string, opts ...Option) *App {
	a := &App{
		Name:        name,
		Prompt:      DefaultPrompt,
		Commands:    commands.NewRegistry(),
		FSM:         fsm.NewController(),
		Ctx:         make(map[string]any),
		confirmExit: true,
		suggest:     true,
		logger:      logger.NewStyledLogger("Shell"),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.io == nil {
		a.io = console.NewReader(os.Stdin, os.Stdout, true)
	}
	if a.printer == nil {
		a.printer = output.NewPrinter(output.WithWriter(console.Writer(a)), output.PlainText())
	}
	if a.help == nil {
		a.help = help.NewRenderer(help.FormatMan)
	}
	if a.Hooks == nil {
		var confirmer events.Confirmer
		if a.confirmExit {
			confirmer = events.ConfirmFunc(func(q string) bool {
				return events.LineConfirmer(a.io).Confirm(q)
			})
		}
		a.Hooks = events.Defaults(a.printer, confirmer)
		if !a.suggest {
			a.Hooks.Suggest = nil
		}
	}
	return a
}

// Printer returns the printer used by the default hooks.
func (a *App) Printer() *output.Printer {
	return a.printer
}

// IO returns the current line adapter.
func (a *App) IO() shelltypes.LineIO {
	return a.io
}

// ReadLine implements shelltypes.LineIO over the current adapter.
func (a *App) ReadLine(prompt string, completions []shelltypes.Completion) (string, error) {
	return a.io.ReadLine(prompt, completions)
}

// Print implements shelltypes.LineIO over the current adapter.
func (a *App) Print(text string) {
	a.io.Print(text)
}

// Input reads one line without completions. State handlers use it to ask questions.
func (a *App) Input(prompt string) (string, error) {
	return a.io.ReadLine(prompt, nil)
}

// Password reads one line without echo when the adapter supports it.
func (a *App) Password(prompt string) (string, error) {
	if pr, ok := a.io.(shelltypes.PasswordReader); ok {
		return pr.ReadPassword(prompt)
	}
	return a.io.ReadLine(prompt, nil)
}

// OnStartup appends a startup hook.
func (a *App) OnStartup(fn func()) {
	a.Hooks.Startup = append(a.Hooks.Startup, fn)
}

// OnClose appends a close hook.
func (a *App) OnClose(fn func()) {
	a.Hooks.Close = append(a.Hooks.Close, fn)
}

// Run prints the intro, installs the builtins, runs the startup hooks, loops
// until a hook agrees to stop and finally runs the close hooks.
func (a *App) Run() error {
	if a.Intro != "" {
		a.io.Print(a.Intro)
	}
	if err := a.start(); err != nil {
		return err
	}
	a.loop()
	a.stop()
	return a.readErr
}

func (a *App) start() error {
	if err := a.Commands.InstallBuiltins(func() string { return a.Documentation }, a.help); err != nil {
		return fmt.Errorf("failed to install builtins: %w", err)
	}
	a.logger.Debug("Shell started", "app", a.Name, "commands", len(a.Commands.All()), "batch", a.batch)
	a.Hooks.RunStartup()
	return nil
}

func (a *App) stop() {
	if a.FSM.IsActive() {
		_ = a.FSM.Finish()
	}
	a.Hooks.RunClose()
	a.logger.Debug("Shell stopped", "app", a.Name, "executed", a.executed, "failed", a.failed)
}

func (a *App) loop() {
	for {
		if a.FSM.IsActive() {
			if err := a.FSM.Current(); err != nil && a.stateFailed(err) {
				return
			}
			continue
		}

		line, err := a.io.ReadLine(a.Prompt, a.Commands.Completions())
		if err != nil {
			if !shelltypes.IsSignal(err) {
				a.logger.Error("Failed to read input", "error", err)
				a.readErr = err
				return
			}
			if a.signal("", "", err) {
				return
			}
			continue
		}
		if a.ExecuteLine(line) {
			return
		}
	}
}

// ExecuteLine dispatches one command line and reports whether the loop should
// stop. The key is everything before the first space; the rest is the argument
// text. Blank lines are ignored.
func (a *App) ExecuteLine(line string) bool {
	line = strings.TrimLeft(line, " \t")
	if strings.TrimSpace(line) == "" {
		return false
	}
	key, args, _ := strings.Cut(line, " ")

	a.executed++
	result, err := a.Commands.Execute(key, args)
	if err == nil {
		a.Hooks.OnComplete(result)
		return false
	}
	if shelltypes.IsSignal(err) {
		return a.signal(key, args, err)
	}

	a.failed++
	if a.FSM.IsActive() {
		// a failed command leaves no state group running
		_ = a.FSM.Finish()
	}
	return a.Hooks.HandleError(key, args, err, a.Commands.VisibleKeys)
}

// signal handles interrupt, end of input and exit requests.
func (a *App) signal(key, args string, err error) bool {
	if a.batch {
		return true
	}
	return a.Hooks.HandleError(key, args, err, nil)
}

// stateFailed reports a failure of the active state's handler. Signals go to the
// hooks and the state is resumed unless they stop the loop; other failures are
// reported as runtime errors and end the run of the group.
func (a *App) stateFailed(err error) bool {
	group := a.FSM.Group().Name()
	if shelltypes.IsSignal(err) {
		return a.signal(group, "", err)
	}
	a.logger.Debug("State handler failed", "group", group, "state", a.FSM.State(), "error", err)
	a.failed++
	_ = a.FSM.Finish()
	return a.Hooks.HandleError(group, "", &shelltypes.RuntimeError{Key: group, Operation: group, Err: err}, nil)
}
