package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"RoomNumber", "KMC201", "KMC201"},
		{"FinnishDetails", "Ryhmätyötila", "Ryhmätyötila"},
		{"Newlines", "KMC201\nforged line\r\nanother", "KMC201 forged line another"},
		{"ControlCharacters", "KM\tC\x00201\x1F", "KM C 201 "},
		{"FormatVerbsKept", "room=%s", "room=%s"},
		{"Markup", "<script>alert(1)</script>", "<script>alert(1)</script>"},
		{"Truncated", strings.Repeat("a", 300), strings.Repeat("a", MaxLogStringLength) + "... (truncated)"},
		{"TruncatedOnRunes", strings.Repeat("ä", 250), strings.Repeat("ä", MaxLogStringLength) + "... (truncated)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogString(tt.input))
		})
	}
}
