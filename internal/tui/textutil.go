package tui

import "strings"

// truncateEnd shortens s to at most max characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// sanitizeQuery trims, flattens whitespace and caps a search query at limit
// runes. A non-positive limit disables the cap.
func sanitizeQuery(input string, limit int) string {
	input = strings.Join(strings.Fields(input), " ")
	if limit > 0 {
		if r := []rune(input); len(r) > limit {
			input = strings.TrimSpace(string(r[:limit]))
		}
	}
	return input
}
