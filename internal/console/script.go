package console

import (
	"fmt"
	"io"
	"strings"

	"eggshell/pkg/shelltypes"
)

// Script is a LineIO that replays scripted input and records everything printed.
// Each input is a string line or an error returned from that read, e.g.
// shelltypes.ErrInterrupt. After the last input every read returns io.EOF.
type Script struct {
	inputs []any
	pos    int

	// Prompts records the prompt of every read, password reads included.
	Prompts []string
	// Completions records the candidates offered to every line read.
	Completions [][]shelltypes.Completion
	// Output records every printed message.
	Output []string
}

// NewScript creates a script over inputs. Inputs that are neither strings nor
// errors panic when read.
func NewScript(inputs ...any) *Script {
	return &Script{inputs: inputs}
}

// ReadLine returns the next scripted input.
func (s *Script) ReadLine(prompt string, completions []shelltypes.Completion) (string, error) {
	s.Completions = append(s.Completions, completions)
	return s.next(prompt)
}

// ReadPassword returns the next scripted input.
func (s *Script) ReadPassword(prompt string) (string, error) {
	return s.next(prompt)
}

func (s *Script) next(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.pos >= len(s.inputs) {
		return "", io.EOF
	}
	in := s.inputs[s.pos]
	s.pos++
	switch v := in.(type) {
	case string:
		return v, nil
	case error:
		return "", v
	default:
		panic(fmt.Sprintf("script input %d has unsupported type %T", s.pos-1, in))
	}
}

// Print records text.
func (s *Script) Print(text string) {
	s.Output = append(s.Output, text)
}

// Remaining returns the number of unread inputs.
func (s *Script) Remaining() int {
	return len(s.inputs) - s.pos
}

// Text returns the recorded output joined by newlines.
func (s *Script) Text() string {
	return strings.Join(s.Output, "\n")
}
