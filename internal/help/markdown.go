package help

import (
	"fmt"
	"strings"

	"eggshell/pkg/shelltypes"
)

// MarkdownListing returns the documentation and a table of commands as markdown.
func MarkdownListing(doc string, infos []shelltypes.HelpInfo) string {
	var b strings.Builder
	if doc = strings.TrimSpace(doc); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n\n")
	}
	b.WriteString("## Commands\n\n")
	b.WriteString("| Command | Arguments | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, info := range infos {
		args := make([]string, len(info.Arguments))
		for i, a := range info.Arguments {
			args[i] = "`" + a + "`"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", info.Command, strings.Join(args, " "), escapeCell(info.Description))
	}
	return b.String()
}

// MarkdownCommand returns detailed help of one command as markdown.
func MarkdownCommand(info shelltypes.HelpInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", info.Command)
	if info.Description != "" {
		b.WriteString(info.Description + "\n\n")
	}
	if info.Doc != "" && info.Doc != info.Description {
		b.WriteString(info.Doc + "\n\n")
	}
	if info.Usage != "" {
		b.WriteString("## Usage\n\n")
		for _, line := range strings.Split(info.Usage, ";") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
		b.WriteString("\n")
	}
	if len(info.Options) > 0 {
		b.WriteString("## Arguments\n\n")
		for _, opt := range info.Options {
			fmt.Fprintf(&b, "- `%s` (%s, %s)", opt.Name, opt.Type, opt.Kind)
			switch {
			case opt.Required:
				b.WriteString(" required")
			case opt.Default != "":
				fmt.Fprintf(&b, " default `%s`", opt.Default)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
