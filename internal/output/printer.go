package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes semantic messages to a writer, styled or plain.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool
	prefix        string

	mu sync.Mutex
}

// NewPrinter creates a Printer writing to os.Stdout in ModeAuto.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print writes text as-is.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf writes formatted text as-is.
func (p *Printer) Printf(format string, args ...any) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println writes text followed by a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info writes an informational line.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success writes a success line.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning writes a warning line.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error writes an error line.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Result writes a command result line.
func (p *Printer) Result(text string) {
	p.output(SemanticResult, text, true)
}

// Styled renders text with the style of semantic without writing it.
// Plain mode returns text unchanged.
func (p *Printer) Styled(semantic SemanticType, text string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stylable() && p.mode != ModePlain && p.mode != ModeJSON {
		return p.styleProvider.GetStyle(string(semantic)).Render(text)
	}
	return text
}

func (p *Printer) output(semantic SemanticType, text string, newline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var out string
	switch p.mode {
	case ModeJSON:
		out = renderJSON(semantic, text)
	case ModeStyled, ModeAuto:
		out = p.renderText(semantic, text, newline, p.stylable())
	default:
		out = p.renderText(semantic, text, newline, false)
	}

	if p.prefix != "" {
		out = p.prefix + out
	}
	_, _ = io.WriteString(p.writer, out)
}

func (p *Printer) renderText(semantic SemanticType, text string, newline, styled bool) string {
	var result string
	if styled {
		result = p.styleProvider.GetStyle(string(semantic)).Render(text)
	} else {
		result = plainStyles.GetStyle(string(semantic)).Render(text)
	}
	if newline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

func renderJSON(semantic SemanticType, text string) string {
	b, err := json.Marshal(map[string]any{
		"type":    semantic,
		"message": text,
	})
	if err != nil {
		return text + "\n"
	}
	return string(b) + "\n"
}

func (p *Printer) stylable() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// SetMode changes the output mode.
func (p *Printer) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// SetStyleProvider changes the style provider. Pass nil to disable styling.
func (p *Printer) SetStyleProvider(provider StyleProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styleProvider = provider
}

// IsStylable reports whether the printer applies styles.
func (p *Printer) IsStylable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylable()
}

// String returns a description of the printer for debugging.
func (p *Printer) String() string {
	styles := "no"
	if p.IsStylable() {
		styles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.mode, styles, p.writer)
}
