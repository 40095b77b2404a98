package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/loglens/loglens/logmodel"
)

// terminalWidth reports the current stdout width, falling back to 80
// columns when stdout isn't a terminal (piped output, CI logs).
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// printLines renders LogLines as "<line> [<level>] <content>" (line number
// right-aligned to 6 columns, level padded to 5), truncating content to fit
// the terminal width.
func printLines(lines []logmodel.LogLine) {
	width := terminalWidth()
	for _, l := range lines {
		content := l.Content
		prefix := fmt.Sprintf("%6d [%-5s] ", l.LineNumber, l.Level)
		budget := width - len(prefix)
		if budget > 0 && len(content) > budget {
			content = content[:budget-1] + "…"
		}
		fmt.Println(prefix + content)
	}
}

func printIndices(indices []int) {
	for _, i := range indices {
		fmt.Println(i)
	}
}
