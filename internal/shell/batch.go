package shell

import (
	"fmt"
	"io"
	"strings"

	"eggshell/internal/console"
	"eggshell/pkg/shelltypes"
)

// BatchError reports the commands of a batch run that failed.
type BatchError struct {
	Failed   int
	Executed int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d commands failed", e.Failed, e.Executed)
}

// scriptIO reads command lines from a script and prints through the app's adapter.
type scriptIO struct {
	lines *console.Reader
	out   shelltypes.LineIO
	line  int
}

func (s *scriptIO) ReadLine(prompt string, completions []shelltypes.Completion) (string, error) {
	for {
		line, err := s.lines.ReadLine(prompt, completions)
		if err != nil {
			return "", err
		}
		s.line++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return line, nil
	}
}

func (s *scriptIO) Print(text string) {
	s.out.Print(text)
}

// RunBatch executes the lines of r as commands through the same pipeline as Run.
// Blank lines and lines starting with # are skipped; state handlers read their
// answers from the following lines. End of input, an interrupt or the exit
// builtin stops the run without asking. Failures are reported as they happen and
// summarized by a *BatchError.
func (a *App) RunBatch(r io.Reader) error {
	prev := a.io
	script := &scriptIO{lines: console.NewReader(r, io.Discard, false), out: prev}
	a.io = script
	a.batch = true
	a.executed, a.failed, a.readErr = 0, 0, nil
	defer func() {
		a.io = prev
		a.batch = false
	}()

	if err := a.start(); err != nil {
		return err
	}
	a.loop()
	a.stop()

	if a.readErr != nil {
		return fmt.Errorf("failed to read script at line %d: %w", script.line, a.readErr)
	}
	if a.failed > 0 {
		return &BatchError{Failed: a.failed, Executed: a.executed}
	}
	return nil
}
