package console

import (
	"fmt"

	"github.com/chzyer/readline"

	"eggshell/pkg/shelltypes"
)

// Readline reads lines through a bare readline instance.
type Readline struct {
	rl        *readline.Instance
	completer *Completer
}

// ReadlineConfig is the subset of readline options eggshell exposes.
type ReadlineConfig struct {
	HistoryFile string
	// HistoryLimit caps the stored history; zero keeps the readline default.
	HistoryLimit int
}

// NewReadline creates a readline adapter on the terminal.
func NewReadline(cfg ReadlineConfig) (*Readline, error) {
	c := NewCompleter()
	rl, err := readline.NewEx(&readline.Config{
		AutoComplete:      c,
		HistoryFile:       cfg.HistoryFile,
		HistoryLimit:      cfg.HistoryLimit,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start line editor: %w", err)
	}
	return &Readline{rl: rl, completer: c}, nil
}

// ReadLine shows prompt and reads one line. Ctrl-C yields shelltypes.ErrInterrupt
// and Ctrl-D yields io.EOF.
func (r *Readline) ReadLine(prompt string, completions []shelltypes.Completion) (string, error) {
	r.completer.Set(completions)
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	return line, mapReadError(err)
}

// ReadPassword reads a line without echo.
func (r *Readline) ReadPassword(prompt string) (string, error) {
	b, err := r.rl.ReadPassword(prompt)
	return string(b), mapReadError(err)
}

// Print writes text followed by a newline.
func (r *Readline) Print(text string) {
	_, _ = fmt.Fprintln(r.rl.Stdout(), text)
}

// Close releases the terminal.
func (r *Readline) Close() error {
	return r.rl.Close()
}
