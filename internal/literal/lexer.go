package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokValue
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokColon
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokValue:
		return "value"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	default:
		return "unknown"
	}
}

type token struct {
	kind  tokenKind
	value any
	pos   int
}

// lex splits the input into tokens. Scalar values are decoded while lexing.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, pos: i})
			i++
		case c == '{':
			toks = append(toks, token{kind: tokLBrace, pos: i})
			i++
		case c == '}':
			toks = append(toks, token{kind: tokRBrace, pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, pos: i})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon, pos: i})
			i++
		case c == '"' || c == '\'':
			s, n, err := lexString(input[i:])
			if err != nil {
				return nil, &SyntaxError{Input: input, Pos: i, Msg: err.Error()}
			}
			toks = append(toks, token{kind: tokValue, value: s, pos: i})
			i += n
		case c == '+' || c == '-' || c == '.' || isDigit(c):
			v, n, err := lexNumber(input[i:])
			if err != nil {
				return nil, &SyntaxError{Input: input, Pos: i, Msg: err.Error()}
			}
			toks = append(toks, token{kind: tokValue, value: v, pos: i})
			i += n
		case isIdentStart(c):
			j := i + 1
			for j < len(input) && isIdentPart(input[j]) {
				j++
			}
			v, ok := keyword(input[i:j])
			if !ok {
				return nil, &SyntaxError{Input: input, Pos: i, Msg: fmt.Sprintf("unknown name %q", input[i:j])}
			}
			toks = append(toks, token{kind: tokValue, value: v, pos: i})
			i = j
		default:
			return nil, &SyntaxError{Input: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(input)})
	return toks, nil
}

func keyword(word string) (any, bool) {
	switch word {
	case "True", "true":
		return true, true
	case "False", "false":
		return false, true
	case "None", "null", "none", "nil":
		return nil, true
	default:
		return nil, false
	}
}

// IsNull reports whether s is one of the null sentinels.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "None", "null", "none", "nil":
		return true
	default:
		return false
	}
}

func lexNumber(s string) (any, int, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i

	// 0x, 0o and 0b prefixed integers
	if i+1 < len(s) && s[i] == '0' && strings.ContainsRune("xXoObB", rune(s[i+1])) {
		j := i + 2
		for j < len(s) && isAlnum(s[j]) {
			j++
		}
		n, err := strconv.ParseInt(s[:j], 0, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid integer %q", s[:j])
		}
		return int(n), j, nil
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	isFloat := false
	if i < len(s) && s[i] == '.' {
		isFloat = true
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return nil, 0, fmt.Errorf("invalid number %q", s[:max(i, 1)])
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits == 0 {
			return nil, 0, fmt.Errorf("invalid exponent in %q", s[:j])
		}
		isFloat = true
		i = j
	}
	if i < len(s) && isIdentPart(s[i]) {
		return nil, 0, fmt.Errorf("invalid number %q", s[:i+1])
	}

	text := s[:i]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid float %q", text)
		}
		return f, i, nil
	}
	if len(s[start:i]) > 1 && s[start] == '0' && strings.TrimLeft(s[start:i], "0") != "" {
		return nil, 0, fmt.Errorf("leading zeros in integer %q", text)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("integer %q out of range", text)
	}
	return int(n), i, nil
}

// lexString decodes a quoted string at the start of s and returns it with the
// number of bytes consumed.
func lexString(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("unterminated string")
			}
			n, err := unescape(&b, s[i+1:])
			if err != nil {
				return "", 0, err
			}
			i += 1 + n
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

// unescape writes the character named by the escape sequence at the start of s
// (the backslash already consumed) and returns the bytes consumed.
func unescape(b *strings.Builder, s string) (int, error) {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\\', '\'', '"':
		b.WriteByte(s[0])
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[s[0]]
		if len(s) < 1+width {
			return 0, fmt.Errorf("truncated \\%c escape", s[0])
		}
		code, err := strconv.ParseUint(s[1:1+width], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid \\%c escape", s[0])
		}
		b.WriteRune(rune(code))
		return 1 + width, nil
	default:
		// unknown escapes are kept verbatim
		b.WriteByte('\\')
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
		return size, nil
	}
	return 1, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return c == '_' || isAlnum(c) }
