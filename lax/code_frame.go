package lax

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeFrame renders the given 1-based line of source with a line-number
// gutter. It returns "" when the line does not exist.
func CodeFrame(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[line-1], "\r")
	lineLabel := strconv.Itoa(line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d\n %s |\n %s | %s",
		line,
		gutterPad,
		lineLabel,
		lineText,
	)
}
