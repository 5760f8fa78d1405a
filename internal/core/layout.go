package core

import (
	"strings"
	"unicode/utf8"
)

const (
	lineWidth        = 30
	descriptionWidth = 23
	amountWidth      = 7
)

// titleLine centers name in a line of stars. When the padding cannot be split
// evenly the extra star goes on the left.
func titleLine(name string) string {
	stars := (lineWidth - utf8.RuneCountInString(name)) / 2
	if stars < 0 {
		stars = 0
	}
	line := strings.Repeat("*", stars) + name + strings.Repeat("*", stars)
	if utf8.RuneCountInString(line) != lineWidth {
		line = "*" + line
	}
	return line
}

func entryLine(e LedgerEntry) string {
	desc := truncate(e.Description, descriptionWidth)
	amount := truncate(e.Amount.StringFixed(2), amountWidth)
	return desc + padLeft(amount, lineWidth-utf8.RuneCountInString(desc))
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// padLeft right-aligns s in a field of width runes. Longer strings are
// returned unchanged.
func padLeft(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
