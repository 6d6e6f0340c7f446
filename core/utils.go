package core

import "strings"

// CleanString trims surrounding whitespace from user input; pass lower to
// also fold the result to lowercase (email addresses, header lookups).
func CleanString(s string, lower ...bool) string {
	cleaned := strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}
