package utils

import "strings"

// NormalizeWhitespace trims the string and collapses inner whitespace runs,
// including non-breaking spaces, into a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates string to max length in runes.
func TruncateString(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}

	return string(runes[:maxLength]) + "..."
}
