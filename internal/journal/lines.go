// Package journal turns free-form workout notes into workout days.
//
// Parsing is a pure function of the input text: there is no I/O, no shared
// state and no error path. Lines that match neither a day header nor an
// exercise shape are dropped as commentary.
package journal

import "strings"

// SplitLines splits text on line breaks and returns the trimmed, non-blank
// lines in their original order.
func SplitLines(text string) []string {
	fields := strings.FieldsFunc(text, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if line := strings.TrimSpace(f); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
