// Package subtitle reduces SRT caption documents to the narrated text.
package subtitle

import (
	"strings"
	"unicode"
)

// TimingSeparator marks an SRT timing line ("00:00:01,000 --> 00:00:02,000").
const TimingSeparator = "-->"

// Clean drops sequence numbers, timing lines and blank lines from an SRT
// document, trims what remains, and collapses runs of identical adjacent
// lines. Only the immediately preceding kept line is compared, so a line that
// reappears after different text is kept again.
func Clean(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isDigits(trimmed) || strings.Contains(line, TimingSeparator) {
			continue
		}
		if n := len(kept); n > 0 && kept[n-1] == trimmed {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
