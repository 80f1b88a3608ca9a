// Package help renders command help data for eggshell in several formats:
// a man-style page, a flat aligned listing, markdown rendered with glamour,
// and YAML or JSON exports.
package help

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"eggshell/internal/logger"
	"eggshell/pkg/shelltypes"
)

// Format selects the help output format.
type Format string

const (
	FormatMan      Format = "man"
	FormatList     Format = "list"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMan, FormatList, FormatMarkdown, FormatYAML, FormatJSON}

// ParseFormat maps a configuration value to a Format. The empty string maps to FormatMan.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatMan, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown help format %q", s)
}

// Renderer renders help in one format. It satisfies commands.HelpRenderer.
type Renderer struct {
	format       Format
	width        int
	glamourStyle string
	logger       *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the word wrap width used for markdown.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithGlamourStyle sets a glamour standard style such as "dark" or "notty".
// Without it the style is detected from the terminal.
func WithGlamourStyle(style string) Option {
	return func(r *Renderer) { r.glamourStyle = style }
}

// NewRenderer creates a renderer for format.
func NewRenderer(format Format, opts ...Option) *Renderer {
	r := &Renderer{
		format: format,
		width:  80,
		logger: logger.NewStyledLogger("Help"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderListing renders the documentation followed by every command in infos.
func (r *Renderer) RenderListing(doc string, infos []shelltypes.HelpInfo) string {
	switch r.format {
	case FormatList:
		return Listing(infos)
	case FormatMarkdown:
		return r.markdown(MarkdownListing(doc, infos))
	case FormatYAML:
		return r.export(infos, yaml.Marshal)
	case FormatJSON:
		return r.export(infos, jsonIndent)
	default:
		return ManText(doc, infos)
	}
}

// RenderCommand renders the help of one command.
func (r *Renderer) RenderCommand(info shelltypes.HelpInfo) string {
	switch r.format {
	case FormatMarkdown:
		return r.markdown(MarkdownCommand(info))
	case FormatYAML:
		return r.export(info, yaml.Marshal)
	case FormatJSON:
		return r.export(info, jsonIndent)
	default:
		return CommandLine(info)
	}
}

func (r *Renderer) markdown(md string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(r.width)}
	if r.glamourStyle != "" {
		opts = append(opts, glamour.WithStandardStyle(r.glamourStyle))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		r.logger.Warn("Markdown renderer unavailable", "error", err)
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		r.logger.Warn("Markdown render failed", "error", err)
		return md
	}
	return out
}

func (r *Renderer) export(v any, marshal func(any) ([]byte, error)) string {
	b, err := marshal(v)
	if err != nil {
		r.logger.Error("Help export failed", "format", r.format, "error", err)
		return fmt.Sprintf("help export failed: %v", err)
	}
	return strings.TrimRight(string(b), "\n")
}

func jsonIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
