package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongDesc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "simple string", input: "Resolves a transaction.", expected: "Resolves a transaction."},
		{
			name:     "indented raw string",
			input:    "\n\t\tFirst line.\n\t\tSecond line.\n\t",
			expected: "First line.\n\t\tSecond line.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, LongDesc(tt.input))
		})
	}
}

func TestExamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "whitespace only", input: " \n\t ", expected: ""},
		{
			name:     "multiple lines",
			input:    "\n\t\t# Resolve once\n\t\ttxstatus resolve solana 5VER\n\t",
			expected: "  # Resolve once\n  txstatus resolve solana 5VER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Examples(tt.input))
		})
	}
}
