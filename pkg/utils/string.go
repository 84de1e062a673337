package utils

import "strings"

// NormalizeWhitespace replaces runs of whitespace with single spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeCell makes a value safe inside a markdown table cell: whitespace
// runs collapse to single spaces and pipes are escaped.
func SanitizeCell(s string) string {
	return strings.ReplaceAll(NormalizeWhitespace(s), "|", "\\|")
}

// Truncate shortens a string to at most maxLength characters, appending an
// ellipsis when anything was cut.
func Truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	return s[:maxLength] + "..."
}
