package unit

import (
	"fmt"
	"strings"
)

// Render produces the systemd unit file text for u. Sections and keys are
// emitted in a fixed order so identical descriptors render byte-identically.
func Render(u *Unit) string {
	var b strings.Builder

	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s\n", u.Description)
	writeListKey(&b, "After", u.After)
	writeListKey(&b, "Wants", u.Wants)
	writeListKey(&b, "Requires", u.Requires)

	b.WriteString("\n[Service]\n")
	if u.Type != "" {
		fmt.Fprintf(&b, "Type=%s\n", u.Type)
	}
	if u.Restart != "" {
		fmt.Fprintf(&b, "Restart=%s\n", u.Restart)
	}
	if u.TimeoutStopSec > 0 {
		fmt.Fprintf(&b, "TimeoutStopSec=%d\n", u.TimeoutStopSec)
	}
	if u.PIDFile != "" {
		fmt.Fprintf(&b, "PIDFile=%s\n", u.PIDFile)
	}
	for _, cmd := range u.ExecStartPre {
		fmt.Fprintf(&b, "ExecStartPre=%s\n", cmd)
	}
	if u.ExecStart != "" {
		fmt.Fprintf(&b, "ExecStart=%s\n", u.ExecStart)
	}
	if u.ExecStop != "" {
		fmt.Fprintf(&b, "ExecStop=%s\n", u.ExecStop)
	}
	for _, cmd := range u.ExecStopPost {
		fmt.Fprintf(&b, "ExecStopPost=%s\n", cmd)
	}

	if len(u.WantedBy) > 0 {
		b.WriteString("\n[Install]\n")
		writeListKey(&b, "WantedBy", u.WantedBy)
	}

	return b.String()
}

func writeListKey(b *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s=%s\n", key, strings.Join(values, " "))
}
