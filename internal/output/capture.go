package output

import (
	"strings"
	"sync"
)

// CaptureBuffer is an io.Writer that records printer output for tests.
// It is safe for concurrent writers.
type CaptureBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

// NewCaptureBuffer creates an empty buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

func (c *CaptureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sb.Write(p)
}

func (c *CaptureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sb.String()
}

// Lines returns the recorded output split on newlines, ignoring the last one.
func (c *CaptureBuffer) Lines() []string {
	text := strings.TrimSuffix(c.String(), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// Contains reports whether text was written.
func (c *CaptureBuffer) Contains(text string) bool {
	return strings.Contains(c.String(), text)
}

// Len returns the number of bytes written.
func (c *CaptureBuffer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sb.Len()
}

// Reset forgets everything written so far.
func (c *CaptureBuffer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sb.Reset()
}

// CaptureOutput returns what fn prints through a plain test printer.
func CaptureOutput(fn func(*Printer)) string {
	buf := NewCaptureBuffer()
	fn(NewPrinter(WithWriter(buf), TestMode()))
	return buf.String()
}

// MockStyleProvider renders text as [semantic]text[/semantic] so tests can
// see which style a message got. Individual styles can be overridden.
type MockStyleProvider struct {
	available bool
	overrides map[string]TextStyle
}

// NewMockStyleProvider creates an available provider with no overrides.
func NewMockStyleProvider() *MockStyleProvider {
	return &MockStyleProvider{available: true, overrides: map[string]TextStyle{}}
}

// SetStyle overrides the style used for semantic.
func (m *MockStyleProvider) SetStyle(semantic string, style TextStyle) {
	m.overrides[semantic] = style
}

// SetAvailable toggles IsAvailable.
func (m *MockStyleProvider) SetAvailable(available bool) {
	m.available = available
}

func (m *MockStyleProvider) GetStyle(semantic string) TextStyle {
	if s, ok := m.overrides[semantic]; ok {
		return s
	}
	return markupStyle(semantic)
}

func (m *MockStyleProvider) IsAvailable() bool {
	return m.available
}

type markupStyle string

func (s markupStyle) Render(text string) string {
	return "[" + string(s) + "]" + text + "[/" + string(s) + "]"
}
