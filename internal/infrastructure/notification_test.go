package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "Download Complete", "Download Complete"},
		{"double quote escaped", `@user "the" one`, `@user \"the\" one`},
		{"backslash escaped", `back\slash`, `back\\slash`},
		{"backslash before quote", `\"`, `\\\"`},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeAppleScript(tt.input))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 30))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))
}
