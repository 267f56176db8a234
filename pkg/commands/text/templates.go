// Package text formats the help text of the CLI commands.
package text

import (
	"strings"
)

// Indentation is the indentation of example lines.
const Indentation = `  `

// LongDesc trims the surrounding whitespace of a long description written as an indented raw
// string literal.
func LongDesc(s string) string {
	return strings.TrimSpace(s)
}

// Examples trims s and indents every line of it.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for line := range strings.SplitSeq(s, "\n") {
		lines = append(lines, Indentation+strings.TrimSpace(line))
	}

	return strings.Join(lines, "\n")
}
