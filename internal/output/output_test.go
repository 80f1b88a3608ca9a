package output

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterBasicOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Print("hello ")
	printer.Println("world")
	printer.Printf("number: %d", 42)

	assert.Equal(t, "hello world\nnumber: 42", buffer.String())
}

func TestPrinterSemanticOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Info("information")
	printer.Success("completed")
	printer.Warning("careful")
	printer.Error("failed")
	printer.Result("42")

	assert.Equal(t, []string{
		"ℹ information",
		"✓ completed",
		"⚠ careful",
		"✗ failed",
		"42",
	}, buffer.Lines())
}

func TestPrinterStyleProvider(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		options   []Option
		want      string
	}{
		{"styled when available", true, nil, "[info]msg[/info]\n"},
		{"plain fallback when unavailable", false, nil, "ℹ msg\n"},
		{"plain mode ignores provider", true, []Option{PlainText()}, "ℹ msg\n"},
		{"styled mode uses provider", true, []Option{WithMode(ModeStyled)}, "[info]msg[/info]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := NewCaptureBuffer()
			provider := NewMockStyleProvider()
			provider.SetAvailable(tt.available)
			opts := append([]Option{WithWriter(buffer), WithStyles(provider)}, tt.options...)
			NewPrinter(opts...).Info("msg")
			assert.Equal(t, tt.want, buffer.String())
		})
	}
}

func TestPrinterStyled(t *testing.T) {
	provider := NewMockStyleProvider()
	styled := NewPrinter(WithStyles(provider))
	assert.Equal(t, "[command]exit[/command]", styled.Styled(SemanticCommand, "exit"))

	plain := NewPrinter(WithStyles(provider), PlainText())
	assert.Equal(t, "exit", plain.Styled(SemanticCommand, "exit"))
}

func TestPrinterJSONMode(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), JSON())

	printer.Info("test message")
	printer.Error("error message")

	lines := buffer.Lines()
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"info","message":"test message"}`, lines[0])
	assert.JSONEq(t, `{"type":"error","message":"error message"}`, lines[1])
}

func TestPrinterSilentAndPrefix(t *testing.T) {
	buffer := NewCaptureBuffer()
	NewPrinter(WithWriter(buffer), Silent()).Error("nothing")
	assert.Empty(t, buffer.String())

	NewPrinter(WithWriter(buffer), WithPrefix("[app] "), TestMode()).Info("message")
	assert.Equal(t, "[app] ℹ message\n", buffer.String())
}

func TestPrinterSetters(t *testing.T) {
	first, second := NewCaptureBuffer(), NewCaptureBuffer()
	printer := NewPrinter(WithWriter(first), TestMode())
	printer.SetWriter(second)
	printer.SetMode(ModeJSON)
	printer.Println("x")
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), `"message":"x"`)

	printer.SetStyleProvider(nil)
	assert.False(t, printer.IsStylable())
	assert.Contains(t, printer.String(), "styles: no")
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":       ModeAuto,
		"auto":   ModeAuto,
		"always": ModeStyled,
		"styled": ModeStyled,
		"never":  ModePlain,
		"plain":  ModePlain,
		"json":   ModeJSON,
		"weird":  ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseMode(in), in)
	}
}

func TestTheme(t *testing.T) {
	var buf bytes.Buffer
	theme := NewTheme(&buf)
	assert.False(t, theme.IsAvailable(), "a buffer is not a color terminal")

	theme.ForceColor(termenv.ANSI256)
	assert.True(t, theme.IsAvailable())
	rendered := theme.GetStyle("error").Render("boom")
	assert.Contains(t, rendered, "boom")
	assert.Contains(t, rendered, "\x1b[")
	assert.Equal(t, "plain", theme.GetStyle("unknown").Render("plain"))

	theme.ForceColor(termenv.Ascii)
	assert.False(t, theme.IsAvailable())
}

func TestForWriter(t *testing.T) {
	buffer := NewCaptureBuffer()

	ForWriter(buffer, "auto").Error("plain")
	assert.Equal(t, "✗ plain\n", buffer.String())

	buffer.Reset()
	styled := ForWriter(buffer, "always")
	assert.True(t, styled.IsStylable())
	styled.Error("red")
	assert.Contains(t, buffer.String(), "red")
	assert.Contains(t, buffer.String(), "\x1b[")

	buffer.Reset()
	ForWriter(buffer, "json").Info("j")
	assert.JSONEq(t, `{"type":"info","message":"j"}`, buffer.String())
}

func TestCaptureHelpers(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Info("captured")
		p.Success("done")
	})
	assert.Equal(t, "ℹ captured\n✓ done\n", out)

	buffer := NewCaptureBuffer()
	assert.Empty(t, buffer.Lines())
	_, err := buffer.Write([]byte("line1\nline2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"line1", "line2"}, buffer.Lines())
	assert.True(t, buffer.Contains("line2"))
	assert.Equal(t, 12, buffer.Len())
	buffer.Reset()
	assert.Zero(t, buffer.Len())

	provider := NewMockStyleProvider()
	provider.SetStyle("custom", NewPlainTextStyle(">> "))
	assert.Equal(t, ">> x", provider.GetStyle("custom").Render("x"))
}

func BenchmarkPrinterPlainOutput(b *testing.B) {
	buffer := &bytes.Buffer{}
	printer := NewPrinter(WithWriter(buffer), PlainText())
	for i := 0; i < b.N; i++ {
		printer.Info("benchmark message")
		buffer.Reset()
	}
}
