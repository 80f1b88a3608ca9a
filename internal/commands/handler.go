package commands

import (
	"errors"
	"regexp"

	"eggshell/internal/binder"
	"eggshell/internal/tokenizer"
	"eggshell/pkg/shelltypes"
)

// Handler turns the argument text of a command line into a bound call.
type Handler struct {
	Tokenizer shelltypes.Tokenizer
	Binder    shelltypes.Binder
}

// DefaultHandler splits arguments like a shell and converts them to the declared types.
func DefaultHandler() Handler {
	return Handler{Tokenizer: tokenizer.Shell(), Binder: binder.New()}
}

// RawHandler passes the whole trimmed argument text as a single string token.
func RawHandler() Handler {
	return Handler{Tokenizer: tokenizer.Raw(), Binder: binder.Verbatim()}
}

// PatternHandler uses every match of re as a token and converts them to the declared types.
func PatternHandler(re *regexp.Regexp) Handler {
	return Handler{Tokenizer: tokenizer.Pattern(re), Binder: binder.New()}
}

// Handle tokenizes text and binds the tokens to params. Tokenizer failures are
// reported as *shelltypes.ParseError.
func (h Handler) Handle(params []shelltypes.Param, text string) (*shelltypes.Args, error) {
	tok := h.Tokenizer
	if tok == nil {
		tok = tokenizer.Shell()
	}
	b := h.Binder
	if b == nil {
		b = binder.New()
	}

	tokens, err := tok.Tokenize(text)
	if err != nil {
		var parseErr *shelltypes.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &shelltypes.ParseError{Input: text, Err: err}
	}
	return b.Bind(params, tokens)
}
