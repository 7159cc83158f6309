package util

import (
	"regexp"
	"strings"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidName reports whether s can serve both as a filesystem path segment
// and as a systemd unit identifier.
func ValidName(s string) bool {
	return validName.MatchString(s)
}

var safeToken = regexp.MustCompile(`^[a-zA-Z0-9@%+=:,./_-]+$`)

// ShellQuote quotes s for inclusion in a shell command line. Safe tokens
// pass through unchanged so flag values stay readable in unit files.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if safeToken.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteCommand renders an argument vector as a single shell command line.
func QuoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = ShellQuote(a)
	}
	return strings.Join(quoted, " ")
}
