// Package utils holds small helpers shared across packages
package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLogStringLength defines the maximum length in runes for user-provided strings in logs
const MaxLogStringLength = 200

var unprintable = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// SanitizeLogString prepares a user-controlled value such as a room number
// or query parameter for logging. Control characters become spaces and long
// values are truncated.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if utf8.RuneCountInString(input) > MaxLogStringLength {
		input = string([]rune(input)[:MaxLogStringLength]) + "... (truncated)"
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	return unprintable.ReplaceAllString(sanitized, "")
}
