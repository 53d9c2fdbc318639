package utils

import "strings"

const ellipsis = "..."

// Snippet cuts s to at most limit runes and appends an ellipsis when it was cut.
// Surrounding whitespace is kept out of the rune budget.
func Snippet(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	return Snippet(s, limit)
}

// FirstN returns at most n leading items of items.
func FirstN[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
