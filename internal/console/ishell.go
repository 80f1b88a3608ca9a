package console

import (
	"errors"
	"io"

	"github.com/abiosoft/ishell/v2"
	"github.com/chzyer/readline"

	"eggshell/pkg/shelltypes"
)

// IShell reads lines through an ishell shell with tab completion.
type IShell struct {
	shell     *ishell.Shell
	completer *Completer
}

// NewIShell creates an ishell backed adapter on the terminal.
func NewIShell() *IShell {
	sh := ishell.New()
	c := NewCompleter()
	sh.CustomCompleter(c)
	return &IShell{shell: sh, completer: c}
}

// ReadLine shows prompt and reads one line. Ctrl-C yields shelltypes.ErrInterrupt
// and Ctrl-D yields io.EOF.
func (s *IShell) ReadLine(prompt string, completions []shelltypes.Completion) (string, error) {
	s.completer.Set(completions)
	s.shell.SetPrompt(prompt)
	line, err := s.shell.ReadLineErr()
	return line, mapReadError(err)
}

// ReadPassword reads a line without echo.
func (s *IShell) ReadPassword(prompt string) (string, error) {
	s.shell.SetPrompt(prompt)
	line, err := s.shell.ReadPasswordErr()
	return line, mapReadError(err)
}

// Print writes text followed by a newline.
func (s *IShell) Print(text string) {
	s.shell.Println(text)
}

// Close releases the terminal.
func (s *IShell) Close() error {
	s.shell.Close()
	return nil
}

// mapReadError translates line editor errors into loop signals. ishell reports
// interrupts with its own readline fork, so the sentinel is matched by message.
func mapReadError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, readline.ErrInterrupt), err.Error() == readline.ErrInterrupt.Error():
		return shelltypes.ErrInterrupt
	case errors.Is(err, io.EOF):
		return io.EOF
	default:
		return err
	}
}
