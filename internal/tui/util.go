package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fitLines pads or cuts lines to exactly n rows.
func fitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// trimBlankLines drops empty leading and trailing rows, as left by the
// markdown renderer's margins.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	blank := func(l string) bool { return strings.TrimSpace(ansi.Strip(l)) == "" }
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
