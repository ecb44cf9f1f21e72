// File: format.go
// Title: Log Formatters
// Description: JSON, text and console renderings of log entries. The
//              console formatter colors the level badge with lipgloss.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Console colors via lipgloss, sorted field output

package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Format selects a Formatter
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatConsole
)

// String returns the configuration name of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatConsole:
		return "console"
	default:
		return "text"
	}
}

// ParseFormat parses a configuration value into a Format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "console":
		return FormatConsole, nil
	}
	return FormatText, fmt.Errorf("invalid log format: %q", format)
}

// Formatter renders an entry to bytes
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// NewFormatter returns the formatter for format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return &TextFormatter{TimestampFormat: "15:04:05"}
	}
}

// JSONFormatter writes one JSON object per line
type JSONFormatter struct{}

// Format implements Formatter
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+8)
	for k, v := range entry.Fields {
		data[k] = v
	}
	data["timestamp"] = entry.Timestamp.Format(time.RFC3339Nano)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.SessionID != "" {
		data["session_id"] = entry.SessionID
	}
	if entry.RequestID != "" {
		data["request_id"] = entry.RequestID
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter writes a single human-readable line
type TextFormatter struct {
	TimestampFormat string
}

// Format implements Formatter
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	return []byte(f.line(entry, fmt.Sprintf("[%s]", entry.Level.ShortString())) + "\n"), nil
}

func (f *TextFormatter) line(entry *Entry, level string) string {
	parts := []string{entry.Timestamp.Format(f.TimestampFormat), level}
	if entry.Logger != "" {
		parts = append(parts, "{"+entry.Logger+"}")
	}
	if entry.SessionID != "" {
		parts = append(parts, "(session="+entry.SessionID+")")
	}
	parts = append(parts, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		parts = append(parts, "["+strings.Join(pairs, " ")+"]")
	}
	if entry.Error != nil {
		parts = append(parts, fmt.Sprintf("error=%q", entry.Error.Error()))
	}
	return strings.Join(parts, " ")
}

// ConsoleFormatter is a TextFormatter with a colored level badge
type ConsoleFormatter struct {
	TextFormatter
	styles map[Level]lipgloss.Style
}

// NewConsoleFormatter creates a console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	badge := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return &ConsoleFormatter{
		TextFormatter: TextFormatter{TimestampFormat: "15:04:05"},
		styles: map[Level]lipgloss.Style{
			LevelTrace: badge("#6B7280"),
			LevelDebug: badge("#06B6D4"),
			LevelInfo:  badge("#10B981"),
			LevelWarn:  badge("#F59E0B"),
			LevelError: badge("#EF4444"),
			LevelFatal: badge("#D946EF"),
			LevelAudit: badge("#3B82F6"),
		},
	}
}

// Format implements Formatter
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	level := entry.Level.ShortString()
	if style, ok := f.styles[entry.Level]; ok {
		level = style.Render(level)
	}
	return []byte(f.line(entry, level) + "\n"), nil
}
