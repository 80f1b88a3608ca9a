package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"eggshell/internal/commands"
	"eggshell/internal/config"
	"eggshell/internal/output"
	"eggshell/internal/shell"
	"eggshell/internal/version"
	"eggshell/pkg/shelltypes"
)

const demoDocumentation = `eggshell demo application.

Commands, a login form and a guessing game built on eggshell.`

const demoIntro = "Welcome to the eggshell demo. Type `help` to list commands."

var (
	errValue      = errors.New("bad value")
	errDivByZero  = errors.New("division by zero")
	errUnhandled  = errors.New("nobody handles this")
	errUnknownKey = errors.New("unknown setting")
)

type connectionError struct {
	host string
}

func (e *connectionError) Error() string {
	return "cannot connect to " + e.host
}

// demo holds the state shared by the demo commands.
type demo struct {
	app     *shell.App
	printer *output.Printer
	prompt  string
	// pick returns the number to guess in [lo, hi].
	pick func(lo, hi int) int

	errs []error
}

// pickNumber chooses the number to guess.
var pickNumber = func(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

// newDemoApp builds the demo application on top of opts.
func newDemoApp(cfg *config.Config, opts ...shell.Option) (*shell.App, error) {
	base := []shell.Option{
		shell.WithPrompt(cfg.Prompt),
		shell.WithConfirmExit(cfg.ConfirmExit),
		shell.WithSuggest(cfg.Suggest),
		shell.WithDocumentation(demoDocumentation),
		shell.WithIntro(demoIntro),
	}
	if cfg.Intro != "" {
		base = append(base, shell.WithIntro(cfg.Intro))
	}
	app := shell.New("eggshell", append(base, opts...)...)

	d := &demo{app: app, printer: app.Printer(), prompt: cfg.Prompt, pick: pickNumber}
	d.registerBasics()
	d.registerHandlers()
	d.registerConfig()
	if err := d.registerAuth(); err != nil {
		return nil, err
	}
	if err := d.registerGuess(); err != nil {
		return nil, err
	}
	if err := app.RegisterBlueprint(d.adminBlueprint()); err != nil {
		return nil, err
	}

	app.OnStartup(func() {
		d.printer.Info("Press Ctrl+C or Ctrl+D or type `exit` to close the application")
	})
	app.OnClose(func() {
		d.printer.Println("Goodbye!")
	})
	if err := errors.Join(d.errs...); err != nil {
		return nil, err
	}
	return app, nil
}

func (d *demo) add(r *commands.Registry, op shelltypes.Operation, opts ...commands.Option) {
	if _, err := r.Register(op, opts...); err != nil {
		d.errs = append(d.errs, err)
	}
}

func (d *demo) registerBasics() {
	r := d.app.Commands

	d.add(r, shelltypes.Operation{
		Name:   "hello",
		Doc:    "Say hello.\n\nGreets the given name, or Anon.",
		Params: []shelltypes.Param{shelltypes.PositionalDefault("name", shelltypes.String(), "Anon")},
		Fn: func(args *shelltypes.Args) (any, error) {
			return "Hello, " + args.String("name") + "!", nil
		},
	}, commands.WithUsage("hello; hello Jane; hello name=Jane"))

	d.add(r, shelltypes.Operation{
		Name:   "sum",
		Doc:    "Sum all passed integers.",
		Params: []shelltypes.Param{shelltypes.Variadic("digits", shelltypes.Int())},
		Fn: func(args *shelltypes.Args) (any, error) {
			total := 0
			for _, n := range args.Ints() {
				total += n
			}
			return total, nil
		},
	}, commands.WithUsage("sum 1 2 3"))

	d.add(r, shelltypes.Operation{
		Name: "div",
		Doc:  "Divide a by b.",
		Params: []shelltypes.Param{
			shelltypes.Positional("a", shelltypes.Float()),
			shelltypes.Positional("b", shelltypes.Float()),
		},
		Fn: func(args *shelltypes.Args) (any, error) {
			if args.Float("b") == 0 {
				return nil, errDivByZero
			}
			return args.Float("a") / args.Float("b"), nil
		},
	}, commands.WithUsage("div 1 2; div a=9 b=3"))

	d.add(r, shelltypes.Operation{
		Name:   "to-upper",
		Doc:    "Print the argument text in upper case, exactly as typed.",
		Params: []shelltypes.Param{shelltypes.Positional("text", nil)},
		Fn: func(args *shelltypes.Args) (any, error) {
			return strings.ToUpper(args.String("text")), nil
		},
	}, commands.WithHandler(commands.RawHandler()), commands.WithUsage("to-upper it's \"quoted\" text"))

	d.add(r, shelltypes.Operation{
		Name:   "digits-sum",
		Doc:    "Sum every digit found in the argument text.",
		Params: []shelltypes.Param{shelltypes.Variadic("digits", shelltypes.Int())},
		Fn: func(args *shelltypes.Args) (any, error) {
			total := 0
			for _, n := range args.Ints() {
				total += n
			}
			return total, nil
		},
	}, commands.WithHandler(commands.PatternHandler(digitPattern)), commands.WithUsage("digits-sum a1b2c3"))

	d.add(r, shelltypes.Operation{
		Name: "version",
		Doc:  "Show the eggshell version.",
		Fn: func(*shelltypes.Args) (any, error) {
			return version.Short(), nil
		},
	})

	d.add(r, shelltypes.Operation{
		Name: "stats",
		Doc:  "Show guessing game results.",
		Fn: func(*shelltypes.Args) (any, error) {
			s := d.stats()
			return fmt.Sprintf("Wins: %s\nDefeats: %s",
				d.printer.Styled(output.SemanticSuccess, fmt.Sprint(s.wins)),
				d.printer.Styled(output.SemanticError, fmt.Sprint(s.losses))), nil
		},
	})
}

// registerHandlers adds raise, whose failures are recovered by error handlers
// depending on their kind.
func (d *demo) registerHandlers() {
	r := d.app.Commands
	d.add(r, shelltypes.Operation{
		Name:   "raise",
		Doc:    "Fail on purpose.\n\nvalue and conn failures are recovered by error handlers; other kinds are not.",
		Params: []shelltypes.Param{shelltypes.PositionalDefault("kind", shelltypes.String(), "value")},
		Fn: func(args *shelltypes.Args) (any, error) {
			switch args.String("kind") {
			case "value":
				return nil, fmt.Errorf("raise: %w", errValue)
			case "conn":
				return nil, &connectionError{host: "example.invalid"}
			default:
				return nil, errUnhandled
			}
		},
	}, commands.WithUsage("raise; raise conn; raise other"))

	valueHandler := r.OnError(func(key string, err error, raw []string, _ map[string]string) (any, error) {
		d.printer.Warning(fmt.Sprintf("%s failed with %v (args: %s)", key, err, strings.Join(raw, " ")))
		return nil, nil
	}, commands.KindIs(errValue))
	connHandler := r.OnError(func(string, error, []string, map[string]string) (any, error) {
		return "caught connection error :P", nil
	}, commands.KindOf[*connectionError]())

	if err := valueHandler.Bind("raise"); err != nil {
		d.errs = append(d.errs, err)
	}
	if err := connHandler.Bind("raise"); err != nil {
		d.errs = append(d.errs, err)
	}
}

var settingValues = map[string][]string{
	"theme":  {"dark", "light"},
	"editor": {"ishell", "readline", "plain"},
	"pager":  {"on", "off"},
}

// registerConfig adds config, an in-memory settings store with nested completions.
func (d *demo) registerConfig() {
	names := make([]string, 0, len(settingValues))
	set := make(map[string]any, len(settingValues))
	for name, values := range settingValues {
		names = append(names, name)
		set[name] = values
	}
	sort.Strings(names)
	tree := map[string]any{"get": names, "set": set, "list": nil}

	d.add(d.app.Commands, shelltypes.Operation{
		Name: "config",
		Doc:  "Get, set or list demo settings.",
		Params: []shelltypes.Param{
			shelltypes.Positional("action", shelltypes.String()),
			shelltypes.PositionalDefault("name", shelltypes.String(), ""),
			shelltypes.PositionalDefault("value", shelltypes.String(), ""),
		},
		Fn: func(args *shelltypes.Args) (any, error) {
			settings := d.settings()
			name := args.String("name")
			switch args.String("action") {
			case "list":
				lines := make([]string, 0, len(settings))
				for _, k := range names {
					if v, ok := settings[k]; ok {
						lines = append(lines, k+" = "+v)
					}
				}
				return strings.Join(lines, "\n"), nil
			case "get":
				v, ok := settings[name]
				if !ok {
					return nil, fmt.Errorf("%w: %s", errUnknownKey, name)
				}
				return v, nil
			case "set":
				if _, ok := settingValues[name]; !ok {
					return nil, fmt.Errorf("%w: %s", errUnknownKey, name)
				}
				settings[name] = args.String("value")
				return nil, nil
			default:
				return nil, fmt.Errorf("unknown action %q (expected get, set or list)", args.String("action"))
			}
		},
	}, commands.WithNestedCompletions(tree, map[string]string{
		"get":  "show a setting",
		"set":  "change a setting",
		"list": "show all settings",
	}), commands.WithUsage("config list; config get theme; config set theme dark"))
}

func (d *demo) settings() map[string]string {
	s, ok := d.app.Ctx["settings"].(map[string]string)
	if !ok {
		s = make(map[string]string)
		d.app.Ctx["settings"] = s
	}
	return s
}

// adminBlueprint holds the hidden secret command and the admin toggle.
func (d *demo) adminBlueprint() *shell.Blueprint {
	bp := shell.NewBlueprint("admin")
	d.add(bp.Commands, shelltypes.Operation{
		Name: "secret",
		Doc:  "A hidden command.",
		Fn: func(*shelltypes.Args) (any, error) {
			return "Is secret command", nil
		},
	}, commands.Hidden())
	d.add(bp.Commands, shelltypes.Operation{
		Name: "admin",
		Doc:  "Toggle the secret command.",
		Fn: func(*shelltypes.Args) (any, error) {
			cmd, ok := bp.Commands.Lookup("secret")
			if !ok {
				return nil, &shelltypes.CommandNotFoundError{Key: "secret"}
			}
			visible := !cmd.Visible()
			if err := bp.Commands.SetVisible("secret", visible); err != nil {
				return nil, err
			}
			if visible {
				d.app.Prompt = "# "
			} else {
				d.app.Prompt = d.prompt
			}
			return nil, nil
		},
	})
	return bp
}
