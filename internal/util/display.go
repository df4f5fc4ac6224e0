package util

import "strings"

// Snippet cleans s for one-line display and truncates it to maxRunes,
// appending an ellipsis when content was cut.
func Snippet(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 80
	}
	s = SanitizeText(s)
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return s
}
