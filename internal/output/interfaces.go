// Package output provides the console printer used by eggshell for loop messages
// and command results. Styling is optional and supplied through a StyleProvider.
package output

// StyleProvider supplies styles for semantic output types.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type such as "info" or "error".
	GetStyle(semantic string) TextStyle

	// IsAvailable reports whether the provider can style text. Printers fall back
	// to plain text when it returns false.
	IsAvailable() bool
}

// TextStyle renders text. Theme wraps lipgloss styles to satisfy it.
type TextStyle interface {
	Render(text string) string
}

// Mode selects how a Printer renders.
type Mode int

const (
	// ModeAuto styles when a provider is available, plain text otherwise.
	ModeAuto Mode = iota
	// ModeStyled always uses the provider when one is set.
	ModeStyled
	// ModePlain renders plain text with semantic prefixes.
	ModePlain
	// ModeJSON renders one JSON object per message.
	ModeJSON
)

// ParseMode maps a configuration value to a Mode.
// Unknown values map to ModeAuto.
func ParseMode(s string) Mode {
	switch s {
	case "styled", "always":
		return ModeStyled
	case "plain", "never":
		return ModePlain
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// SemanticType is the meaning of a message, used to pick its style.
type SemanticType string

const (
	SemanticPlain     SemanticType = "plain"
	SemanticInfo      SemanticType = "info"
	SemanticSuccess   SemanticType = "success"
	SemanticWarning   SemanticType = "warning"
	SemanticError     SemanticType = "error"
	SemanticCommand   SemanticType = "command"
	SemanticHighlight SemanticType = "highlight"
	SemanticBold      SemanticType = "bold"
	// SemanticResult is used for command results printed by the loop.
	SemanticResult SemanticType = "result"
	// SemanticMuted is used for secondary text such as argument lists.
	SemanticMuted SemanticType = "muted"
)
