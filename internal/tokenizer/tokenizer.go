// Package tokenizer provides the argument tokenizers for eggshell commands.
// A tokenizer turns the argument text of a command line into the list of tokens
// handed to the binder.
package tokenizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"

	"eggshell/pkg/shelltypes"
)

// escapedEquals stands in for \= while shellquote splits the text.
const escapedEquals = "\uE000"

// Shell splits text into words the way a POSIX shell does, honoring single quotes,
// double quotes and backslash escapes. An unquoted \= reaches the binder as \=
// so the token stays positional. Malformed quoting yields a *shelltypes.ParseError.
func Shell() shelltypes.Tokenizer {
	return shelltypes.TokenizerFunc(func(raw string) ([]string, error) {
		words, err := shellquote.Split(protectEquals(raw))
		if err != nil {
			return nil, &shelltypes.ParseError{Input: raw, Err: err}
		}
		if words == nil {
			words = []string{}
		}
		for i, w := range words {
			words[i] = strings.ReplaceAll(w, escapedEquals, `\=`)
		}
		return words, nil
	})
}

// protectEquals replaces every \= outside single quotes with escapedEquals.
// An escaped backslash is skipped so \\= keeps its meaning.
func protectEquals(raw string) string {
	if !strings.Contains(raw, `\=`) {
		return raw
	}
	var b strings.Builder
	var quote byte
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			}
		case ch == '\\' && i+1 < len(raw):
			if raw[i+1] == '=' {
				b.WriteString(escapedEquals)
			} else {
				b.WriteByte(ch)
				b.WriteByte(raw[i+1])
			}
			i++
			continue
		case ch == quote:
			quote = 0
		case quote == 0 && (ch == '\'' || ch == '"'):
			quote = ch
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// Raw returns the trimmed text as exactly one token.
func Raw() shelltypes.Tokenizer {
	return shelltypes.TokenizerFunc(func(raw string) ([]string, error) {
		return []string{strings.TrimSpace(raw)}, nil
	})
}

// Pattern returns every match of re in the text as a token. When re has capture
// groups, the first group of each match is used instead of the whole match.
func Pattern(re *regexp.Regexp) shelltypes.Tokenizer {
	return shelltypes.TokenizerFunc(func(raw string) ([]string, error) {
		matches := re.FindAllStringSubmatch(raw, -1)
		tokens := make([]string, 0, len(matches))
		for _, m := range matches {
			if len(m) > 1 {
				tokens = append(tokens, m[1])
			} else {
				tokens = append(tokens, m[0])
			}
		}
		return tokens, nil
	})
}

// MustPattern compiles expr and returns a Pattern tokenizer. It panics if expr
// does not compile.
func MustPattern(expr string) shelltypes.Tokenizer {
	re, err := regexp.Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("tokenizer: invalid pattern %q: %v", expr, err))
	}
	return Pattern(re)
}
