// File: timex.go
// Title: Time Utilities
// Description: Compact duration rendering for command transcripts and
//              script reports.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time operations
// - 2026-10-19 v0.2.0: Reduced to FormatDurationCompact

// Package timex provides time formatting helpers.
package timex

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationCompact renders d as "1h 2m 3s". Durations under a
// second are shown in milliseconds ("250ms") or microseconds ("80µs").
// Units below the largest one present are always shown down to seconds.
func FormatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	var parts []string
	units := []struct {
		size   time.Duration
		suffix string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}
	for _, unit := range units {
		n := d / unit.size
		d -= n * unit.size
		if n > 0 || len(parts) > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, unit.suffix))
		}
	}
	return strings.Join(parts, " ")
}
