// Package literal provides the minimal literal grammar used by eggshell to read
// structured argument values such as [1, 2] or {"a": True}.
//
// Parsed values are nil, bool, int, float64, string, []any and *Map.
// Parsing uses an explicit stack so deeply nested input cannot exhaust the
// goroutine stack.
package literal

import (
	"fmt"
)

// SyntaxError describes where and why an input is not a literal.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid literal at offset %d: %s", e.Pos, e.Msg)
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered mapping with scalar keys.
type Map struct {
	entries []Entry
	index   map[any]int
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Set stores value under key. A key that is already present keeps its position
// and takes the new value.
func (m *Map) Set(key, value any) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

type frameKind int

const (
	listFrame frameKind = iota
	mapFrame
)

type frame struct {
	kind   frameKind
	list   []any
	m      *Map
	key    any
	hasKey bool
}

// Parse evaluates input as a single literal.
func Parse(input string) (any, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}

	var (
		stack []*frame
		pos   int
	)
	next := func() token {
		t := toks[pos]
		if t.kind != tokEOF {
			pos++
		}
		return t
	}
	fail := func(t token, format string, args ...any) error {
		return &SyntaxError{Input: input, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
	}

	for {
		// Read one value, or the closer of an empty or trailing-comma container.
		var value any
		t := next()
		switch t.kind {
		case tokValue:
			value = t.value
		case tokLBracket:
			stack = append(stack, &frame{kind: listFrame, list: []any{}})
			continue
		case tokLBrace:
			stack = append(stack, &frame{kind: mapFrame, m: NewMap()})
			continue
		case tokRBracket, tokRBrace:
			top := topOf(stack)
			if top == nil || top.hasKey || !closes(top, t.kind) {
				return nil, fail(t, "unexpected %s", t.kind)
			}
			stack = stack[:len(stack)-1]
			value = top.result()
		default:
			return nil, fail(t, "unexpected %s", t.kind)
		}

		// Hand the value to the enclosing containers, closing them as they end.
		for {
			top := topOf(stack)
			if top == nil {
				if t := next(); t.kind != tokEOF {
					return nil, fail(t, "unexpected %s after value", t.kind)
				}
				return value, nil
			}

			if top.kind == mapFrame && !top.hasKey {
				if !isScalar(value) {
					return nil, fail(toks[pos-1], "unhashable map key")
				}
				if t := next(); t.kind != tokColon {
					return nil, fail(t, "expected ':' after map key, found %s", t.kind)
				}
				top.key, top.hasKey = value, true
				break
			}

			if top.kind == listFrame {
				top.list = append(top.list, value)
			} else {
				top.m.Set(top.key, value)
				top.key, top.hasKey = nil, false
			}

			t := next()
			if t.kind == tokComma {
				break
			}
			if !closes(top, t.kind) {
				return nil, fail(t, "expected ',' or closing bracket, found %s", t.kind)
			}
			stack = stack[:len(stack)-1]
			value = top.result()
		}
	}
}

// IsLiteral reports whether input parses as a literal.
func IsLiteral(input string) bool {
	_, err := Parse(input)
	return err == nil
}

func topOf(stack []*frame) *frame {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func closes(f *frame, kind tokenKind) bool {
	return (f.kind == listFrame && kind == tokRBracket) || (f.kind == mapFrame && kind == tokRBrace)
}

func (f *frame) result() any {
	if f.kind == listFrame {
		return f.list
	}
	return f.m
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, int, float64, string:
		return true
	default:
		return false
	}
}

// Truthy reports the truth value of a parsed literal: false, zero numbers,
// empty strings, empty containers and null are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case *Map:
		return x.Len() > 0
	default:
		return true
	}
}
