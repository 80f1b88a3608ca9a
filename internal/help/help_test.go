package help

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"eggshell/pkg/shelltypes"
)

func sampleInfos() []shelltypes.HelpInfo {
	return []shelltypes.HelpInfo{
		{
			Command:     "hello",
			Description: "Greet someone",
			Doc:         "Greet someone.\nFalls back to Anon.",
			Arguments:   []string{`name:string="Anon"`},
			Options: []shelltypes.HelpOption{
				{Name: "name", Kind: "positional", Type: "string", Default: `"Anon"`},
			},
			Visible: true,
		},
		{
			Command:     "exit",
			Description: "Exit from this application.",
			Doc:         "Exit from this application.",
			Visible:     true,
		},
		{
			Command:     "help",
			Description: "Show help",
			Usage:       "help; help exit",
			Arguments:   []string{"key:string=None"},
			Options: []shelltypes.HelpOption{
				{Name: "key", Kind: "positional", Type: "string", Default: "None"},
			},
			Visible: true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMan, false},
		{"man", FormatMan, false},
		{"LIST", FormatList, false},
		{"markdown", FormatMarkdown, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "exit - Exit from this application.", CommandLine(sampleInfos()[1]))
}

func TestManText(t *testing.T) {
	got := ManText("Demo application.\n", sampleInfos())
	want := strings.Join([]string{
		"Demo application.",
		"",
		"COMMANDS:",
		`    hello [name:string="Anon"]`,
		"        Greet someone.",
		"        Falls back to Anon.",
		"",
		"    exit",
		"        Exit from this application.",
		"",
		"    help [key:string=None]",
		"        Show help",
		"",
		"        USAGE:",
		"            help; help exit",
	}, "\n")
	assert.Equal(t, want, got)

	assert.Equal(t, "COMMANDS:", ManText("", nil))
}

func TestListing(t *testing.T) {
	got := Listing(sampleInfos())
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `hello (name:string="Anon")  Greet someone`, lines[0])
	col := strings.Index(lines[0], "Greet")
	assert.Equal(t, col, strings.Index(lines[1], "Exit"))
	assert.Equal(t, col, strings.Index(lines[2], "Show help"))

	assert.Equal(t, "bare", Listing([]shelltypes.HelpInfo{{Command: "bare"}}))
}

func TestMarkdownText(t *testing.T) {
	md := MarkdownListing("Doc", sampleInfos())
	assert.Contains(t, md, "## Commands")
	assert.Contains(t, md, "| `hello` | `name:string=\"Anon\"` | Greet someone |")

	cmd := MarkdownCommand(sampleInfos()[2])
	assert.Contains(t, cmd, "# help")
	assert.Contains(t, cmd, "    help\n    help exit\n")
	assert.Contains(t, cmd, "- `key` (string, positional) default `None`")

	assert.Equal(t, `a\|b c`, escapeCell("a|b\nc"))
}

func TestRendererFormats(t *testing.T) {
	infos := sampleInfos()

	t.Run("man", func(t *testing.T) {
		r := NewRenderer(FormatMan)
		assert.Equal(t, ManText("doc", infos), r.RenderListing("doc", infos))
		assert.Equal(t, "hello - Greet someone", r.RenderCommand(infos[0]))
	})

	t.Run("list", func(t *testing.T) {
		r := NewRenderer(FormatList)
		assert.Equal(t, Listing(infos), r.RenderListing("ignored", infos))
	})

	t.Run("markdown", func(t *testing.T) {
		r := NewRenderer(FormatMarkdown, WithGlamourStyle("notty"), WithWidth(100))
		out := r.RenderListing("Demo application.", infos)
		assert.Contains(t, out, "Demo application.")
		assert.Contains(t, out, "hello")
		assert.Contains(t, r.RenderCommand(infos[2]), "help exit")
	})

	t.Run("json", func(t *testing.T) {
		r := NewRenderer(FormatJSON)
		var decoded []shelltypes.HelpInfo
		require.NoError(t, json.Unmarshal([]byte(r.RenderListing("", infos)), &decoded))
		assert.Equal(t, infos, decoded)

		var one shelltypes.HelpInfo
		require.NoError(t, json.Unmarshal([]byte(r.RenderCommand(infos[0])), &one))
		assert.Equal(t, "hello", one.Command)
	})

	t.Run("yaml", func(t *testing.T) {
		r := NewRenderer(FormatYAML)
		out := r.RenderListing("", infos)
		assert.Contains(t, out, "command: hello")
		var decoded []shelltypes.HelpInfo
		require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, infos, decoded)
		assert.Equal(t, FormatYAML, r.Format())
	})
}
