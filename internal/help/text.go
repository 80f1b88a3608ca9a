package help

import (
	"strings"

	"eggshell/pkg/shelltypes"
)

// CommandLine returns "key - summary".
func CommandLine(info shelltypes.HelpInfo) string {
	return info.Command + " - " + info.Description
}

// ManText renders a man-style page: the documentation, then a COMMANDS section
// with each command, its bracketed arguments, its description and usage.
// The description is the documentation of the command, or its summary when
// the command has none.
func ManText(doc string, infos []shelltypes.HelpInfo) string {
	var b strings.Builder
	if doc = strings.TrimSpace(doc); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n\n")
	}
	b.WriteString("COMMANDS:\n")
	for _, info := range infos {
		b.WriteString("    ")
		b.WriteString(info.Command)
		for _, arg := range info.Arguments {
			b.WriteString(" [" + arg + "]")
		}
		b.WriteString("\n")

		text := info.Doc
		if text == "" {
			text = info.Description
		}
		writeIndented(&b, text, "        ")
		b.WriteString("\n")

		if info.Usage != "" {
			b.WriteString("        USAGE:\n")
			writeIndented(&b, info.Usage, "            ")
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Listing renders one aligned line per command: "key (args)  summary".
func Listing(infos []shelltypes.HelpInfo) string {
	heads := make([]string, len(infos))
	width := 0
	for i, info := range infos {
		head := info.Command
		if len(info.Arguments) > 0 {
			head += " (" + strings.Join(info.Arguments, ", ") + ")"
		}
		heads[i] = head
		width = max(width, len(head))
	}

	lines := make([]string, len(infos))
	for i, info := range infos {
		line := heads[i]
		if info.Description != "" {
			line += strings.Repeat(" ", width-len(heads[i])+2) + info.Description
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func writeIndented(b *strings.Builder, text, indent string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(indent)
		b.WriteString(strings.TrimRight(line, " \t"))
		b.WriteString("\n")
	}
}
