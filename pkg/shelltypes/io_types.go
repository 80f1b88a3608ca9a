// Package shelltypes defines the line IO contract for eggshell.
// This file contains the interfaces implemented by terminal adapters and the
// completion entries handed to them before every read.
package shelltypes

// Completion is a single completion hint for a command key.
type Completion struct {
	Label string
	// Description is the one-line summary for adapters that list candidates
	// with text, such as the scripted test adapter.
	Description string
	// Nested is an opaque tree of follow-up hints. Adapters that understand
	// map[string]any trees with string leaves render them as sub-completions.
	Nested any
	// Meta carries per-hint descriptions for Nested, keyed by hint label
	Meta map[string]string
}

// LineIO is the collaborator the interactive loop reads lines from and prints to.
type LineIO interface {
	// ReadLine shows prompt and returns one line of input. It returns ErrInterrupt
	// on Ctrl-C and io.EOF at end of input.
	ReadLine(prompt string, completions []Completion) (string, error)
	Print(text string)
}

// PasswordReader is implemented by LineIO adapters able to read without echo.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}
