package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"web", true},
		{"uptime-kuma", true},
		{"pod_1.backend", true},
		{"Web2", true},
		{"", false},
		{"-leading-dash", false},
		{"has space", false},
		{"slash/name", false},
		{"semi;colon", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidName(tt.input))
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"db:10.0.0.1", "db:10.0.0.1"},
		{"8080:80/tcp", "8080:80/tcp"},
		{"plain", "plain"},
		{"", "''"},
		{"has space", "'has space'"},
		{"semi;colon", "'semi;colon'"},
		{"don't", `'don'\''t'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellQuote(tt.input))
		})
	}
}

func TestQuoteCommand(t *testing.T) {
	got := QuoteCommand([]string{"podman", "pod", "create", "--hostname=my host"})
	assert.Equal(t, "podman pod create '--hostname=my host'", got)
}
