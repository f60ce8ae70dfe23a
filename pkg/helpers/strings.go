// Package helpers provides common utility functions used across the project.
package helpers

import "strings"

// IsEmpty checks if a string is empty or contains only whitespace.
//
// Input: string to check
// Output: bool indicating if string is empty/whitespace
// Behavior: Trims whitespace and checks length
//
// Example:
//
//	result := helpers.IsEmpty("")        // true
//	result := helpers.IsEmpty("  ")      // true
//	result := helpers.IsEmpty("hello")   // false
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DefaultString returns the first non-empty string from the provided options.
// Useful for providing fallback values.
//
// Input: variadic string arguments
// Output: first non-empty string, or empty string if all are empty
// Behavior: Returns first non-empty string, ignoring empty/whitespace strings
//
// Example:
//
//	result := helpers.DefaultString("", "fallback", "primary") // "fallback"
func DefaultString(options ...string) string {
	for _, option := range options {
		if !IsEmpty(option) {
			return option
		}
	}
	return ""
}

// TruncateRunes cuts a string to at most n runes, appending "..." when cut.
//
// Input: string to cut and maximum rune count
// Output: the string unchanged if within the limit, otherwise the first n
// runes followed by "..."
// Behavior: Counts runes, not bytes, so CJK text is never split mid-character
//
// Example:
//
//	preview := helpers.TruncateRunes(content, 200)
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
