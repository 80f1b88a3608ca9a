package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is a StyleProvider backed by lipgloss styles bound to one writer.
type Theme struct {
	renderer  *lipgloss.Renderer
	styles    map[SemanticType]lipgloss.Style
	available bool
}

// NewTheme creates the default theme for w. The theme is unavailable when the
// terminal behind w has no color support, or NO_COLOR is set.
func NewTheme(w io.Writer) *Theme {
	r := lipgloss.NewRenderer(w)
	t := &Theme{
		renderer:  r,
		available: r.ColorProfile() != termenv.Ascii,
	}
	t.styles = map[SemanticType]lipgloss.Style{
		SemanticInfo:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#66B2FF"}),
		SemanticSuccess:   r.NewStyle().Foreground(lipgloss.Color("#80ff00")),
		SemanticWarning:   r.NewStyle().Foreground(lipgloss.Color("#ffff00")).Bold(true),
		SemanticError:     r.NewStyle().Foreground(lipgloss.Color("9")),
		SemanticCommand:   r.NewStyle().Foreground(lipgloss.Color("#7d7c80")).Italic(true),
		SemanticHighlight: r.NewStyle().Foreground(lipgloss.Color("#ffff00")).Bold(true),
		SemanticBold:      r.NewStyle().Bold(true),
		SemanticResult:    r.NewStyle().Foreground(lipgloss.Color("#696969")).Bold(true),
		SemanticMuted:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#7d7c80"}),
	}
	return t
}

// ForceColor makes the theme available with the given color profile, for
// writers that are not terminals.
func (t *Theme) ForceColor(profile termenv.Profile) *Theme {
	t.renderer.SetColorProfile(profile)
	t.available = profile != termenv.Ascii
	return t
}

// GetStyle returns the lipgloss style for semantic, or an empty style.
func (t *Theme) GetStyle(semantic string) TextStyle {
	if s, ok := t.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{s}
	}
	return lipglossStyle{t.renderer.NewStyle()}
}

// lipglossStyle adapts the variadic lipgloss Render to TextStyle.
type lipglossStyle struct {
	s lipgloss.Style
}

func (l lipglossStyle) Render(text string) string {
	return l.s.Render(text)
}

// IsAvailable reports whether the writer supports colors.
func (t *Theme) IsAvailable() bool {
	return t.available
}

// ColorSupported reports whether w is a terminal with color support, honoring
// the NO_COLOR and CLICOLOR_FORCE environment variables.
func ColorSupported(w io.Writer) bool {
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// ForWriter creates a printer for w. setting is "auto", "always", "never" or
// "json"; in auto mode the printer is styled only when w supports colors.
func ForWriter(w io.Writer, setting string) *Printer {
	mode := ParseMode(setting)
	theme := NewTheme(w)
	switch mode {
	case ModeStyled:
		if !theme.IsAvailable() {
			theme.ForceColor(termenv.ANSI256)
		}
	case ModeAuto:
		if !ColorSupported(w) {
			return NewPrinter(WithWriter(w), PlainText())
		}
	}
	return NewPrinter(WithWriter(w), WithMode(mode), WithStyles(theme))
}
