package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"eggshell/internal/commands"
	"eggshell/internal/events"
	"eggshell/internal/fsm"
	"eggshell/internal/output"
	"eggshell/pkg/shelltypes"
)

var digitPattern = regexp.MustCompile(`\d`)

const minPasswordLen = 7

func (d *demo) printCredentials(email, password string) {
	d.printer.Success("Success auth!")
	d.printer.Println("Email: " + email)
	d.printer.Println("Password: " + strings.Repeat("*", len(password)))
}

// registerAuth adds auth, which logs in directly when both credentials are
// passed and otherwise walks the login form.
func (d *demo) registerAuth() error {
	c := d.app.FSM
	form := fsm.MustGroup("login", "email", "password", "accept")
	c.Attach(form)

	if _, err := d.app.Commands.Register(shelltypes.Operation{
		Name: "auth",
		Doc:  "Auth to service.\n\nWithout email and password an interactive form asks for them.",
		Params: []shelltypes.Param{
			shelltypes.PositionalDefault("email", shelltypes.Optional(shelltypes.String()), nil),
			shelltypes.PositionalDefault("password", shelltypes.Optional(shelltypes.String()), nil),
		},
		Fn: func(args *shelltypes.Args) (any, error) {
			email, password := args.String("email"), args.String("password")
			if email != "" && password != "" {
				d.printCredentials(email, password)
				return nil, nil
			}
			return nil, c.Run(form)
		},
	}); err != nil {
		return err
	}

	steps := map[string]fsm.Handler{
		"email": func(c *fsm.Controller) error {
			email, err := d.app.Input("Enter email > ")
			if err != nil {
				return err
			}
			if !strings.Contains(email, "@") {
				d.printer.Error("email is not valid")
				return nil
			}
			if err := c.Put("email", email); err != nil {
				return err
			}
			return c.Next()
		},
		"password": func(c *fsm.Controller) error {
			password, err := d.app.Password("Enter password > ")
			if err != nil {
				return err
			}
			if len(password) < minPasswordLen {
				d.printer.Error(fmt.Sprintf("password len should be bigger than %d", minPasswordLen-1))
				return nil
			}
			if err := c.Put("password", password); err != nil {
				return err
			}
			return c.Next()
		},
		"accept": func(c *fsm.Controller) error {
			email, _ := c.Value("email")
			password, _ := c.Value("password")
			d.printCredentials(fmt.Sprint(email), fmt.Sprint(password))
			return c.Finish()
		},
	}
	for _, state := range form.States() {
		if err := c.OnState(state, steps[state.Name()]); err != nil {
			return err
		}
	}
	return nil
}

type game struct {
	min, max int
	attempts int
	number   int
}

type stats struct {
	wins, losses int
}

func (d *demo) stats() *stats {
	s, ok := d.app.Ctx["stats"].(*stats)
	if !ok {
		s = &stats{}
		d.app.Ctx["stats"] = s
	}
	return s
}

func (d *demo) game() *game {
	g, _ := d.app.Ctx["game"].(*game)
	return g
}

// registerGuess adds guess, a number guessing game driven by explicit jumps
// between its states.
func (d *demo) registerGuess() error {
	c := d.app.FSM
	states := fsm.MustGroup("guess", "game", "win", "lose", "exit")
	c.Attach(states)

	if _, err := d.app.Commands.Register(shelltypes.Operation{
		Name: "guess",
		Doc:  "Start a guessing game.\n\nGuess a number between min and max; q leaves the game.",
		Params: []shelltypes.Param{
			shelltypes.PositionalDefault("min", shelltypes.Int(), 0),
			shelltypes.PositionalDefault("max", shelltypes.Int(), 10),
			shelltypes.PositionalDefault("attempts", shelltypes.Int(), 3),
		},
		Fn: func(args *shelltypes.Args) (any, error) {
			lo, hi, attempts := args.Int("min"), args.Int("max"), args.Int("attempts")
			if lo > hi {
				return nil, fmt.Errorf("min %d is bigger than max %d", lo, hi)
			}
			d.printer.Println(fmt.Sprintf("Game config: minimal number=%d, max number=%d, attempts=%d", lo, hi, attempts))
			d.printer.Println(d.printer.Styled(output.SemanticSuccess, "Start game:"))
			d.app.Ctx["game"] = &game{min: lo, max: hi, attempts: attempts, number: d.pick(lo, hi)}
			return nil, c.Run(states)
		},
	}, commands.WithUsage("guess; guess 0 100 5; guess max=20")); err != nil {
		return err
	}

	steps := map[string]fsm.Handler{
		"game": func(c *fsm.Controller) error {
			g := d.game()
			if g.attempts <= 0 {
				return c.Set(states.State("lose"))
			}
			answer, err := d.app.Input(fmt.Sprintf("[%d]Enter number -> ", g.attempts))
			if err != nil {
				return err
			}
			answer = strings.TrimSpace(answer)
			if answer == "q" {
				return c.Set(states.State("exit"))
			}
			n, err := strconv.Atoi(answer)
			if err != nil {
				d.printer.Warning("Should be number or `q`")
				return nil
			}
			switch {
			case n == g.number:
				return c.Set(states.State("win"))
			case n < g.number:
				d.printer.Println(fmt.Sprintf("Should be %s than %d", d.printer.Styled(output.SemanticError, "bigger"), n))
			default:
				d.printer.Println(fmt.Sprintf("Should be %s than %d", d.printer.Styled(output.SemanticError, "less"), n))
			}
			g.attempts--
			return c.Set(states.State("game"))
		},
		"win": func(c *fsm.Controller) error {
			d.printer.Success("Winner winner, chicken dinner!")
			d.stats().wins++
			return c.Finish()
		},
		"lose": func(c *fsm.Controller) error {
			d.printer.Error(fmt.Sprintf("Defeated. Correct answer %d", d.game().number))
			d.stats().losses++
			return c.Finish()
		},
		"exit": func(c *fsm.Controller) error {
			if events.LineConfirmer(d.app).Confirm("Exit from game? You will be credited with defeat") {
				d.printer.Error("Manual exit game, Defeated")
				d.stats().losses++
				return c.Finish()
			}
			return c.Set(states.State("game"))
		},
	}
	for _, state := range states.States() {
		if err := c.OnState(state, steps[state.Name()]); err != nil {
			return err
		}
	}
	return nil
}
