// File: level.go
// Title: Log Levels
// Description: Defines the log levels, their textual forms and parsing
//              from configuration strings.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Trimmed to the levels used by the command engine

package log

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelAudit
)

var levelNames = map[Level][2]string{
	LevelTrace: {"TRACE", "TRC"},
	LevelDebug: {"DEBUG", "DBG"},
	LevelInfo:  {"INFO", "INF"},
	LevelWarn:  {"WARN", "WRN"},
	LevelError: {"ERROR", "ERR"},
	LevelFatal: {"FATAL", "FTL"},
	LevelAudit: {"AUDIT", "AUD"},
}

// String returns the full upper-case name of the level
func (l Level) String() string {
	if names, ok := levelNames[l]; ok {
		return names[0]
	}
	return "UNKNOWN"
}

// ShortString returns the three-letter form used by the text formatter
func (l Level) ShortString() string {
	if names, ok := levelNames[l]; ok {
		return names[1]
	}
	return "???"
}

// ShouldLog reports whether an entry of this level passes minLevel.
// Audit entries always pass.
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel parses a level name or its short form
func ParseLevel(level string) (Level, error) {
	wanted := strings.ToUpper(strings.TrimSpace(level))
	if wanted == "WARNING" {
		wanted = "WARN"
	}
	for l, names := range levelNames {
		if names[0] == wanted || names[1] == wanted {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("invalid log level: %q", level)
}
