package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"eggshell/pkg/shelltypes"
)

// Reader reads lines from any io.Reader. It serves batch scripts and piped input.
type Reader struct {
	scanner    *bufio.Scanner
	out        io.Writer
	showPrompt bool
}

// NewReader creates a plain adapter. When showPrompt is set, prompts are written
// to out before each read.
func NewReader(in io.Reader, out io.Writer, showPrompt bool) *Reader {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Reader{scanner: s, out: out, showPrompt: showPrompt}
}

// ReadLine returns the next line without its line ending, or io.EOF.
func (r *Reader) ReadLine(prompt string, _ []shelltypes.Completion) (string, error) {
	if r.showPrompt {
		_, _ = io.WriteString(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

// ReadPassword reads the next line. Input is not a terminal, so nothing is hidden.
func (r *Reader) ReadPassword(prompt string) (string, error) {
	return r.ReadLine(prompt, nil)
}

// Print writes text followed by a newline.
func (r *Reader) Print(text string) {
	_, _ = fmt.Fprintln(r.out, text)
}

// Writer adapts a LineIO to an io.Writer. Each write is printed as one message
// with a single trailing newline removed.
func Writer(lio shelltypes.LineIO) io.Writer {
	return lineWriter{lio}
}

type lineWriter struct {
	lio shelltypes.LineIO
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.lio.Print(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
