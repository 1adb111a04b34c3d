// Package strings provides string helpers shared by request normalization.
package strings

import (
	"strings"
)

// NormalizeTokens lowercases and trims each value, drops empties and
// duplicates, and keeps first-seen order.
//
//	NormalizeTokens([]string{" Monday", "friday", "MONDAY", ""})
//	// []string{"monday", "friday"}
func NormalizeTokens(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		token := strings.ToLower(strings.TrimSpace(v))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}
	return result
}

// TrimFields trims surrounding whitespace from every pointed-to string.
func TrimFields(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
