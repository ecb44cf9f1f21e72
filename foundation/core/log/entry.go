// File: entry.go
// Title: Log Entries and Fields
// Description: Defines the Entry written by formatters and the Fields map
//              used to attach structured context to a log call.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Session and request IDs replace user/correlation IDs

package log

import (
	"time"
)

// Fields carries structured key/value context
type Fields map[string]interface{}

// Merge returns a new map holding f overlaid with other
func (f Fields) Merge(other Fields) Fields {
	merged := make(Fields, len(f)+len(other))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Entry is one log record
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Logger    string    `json:"logger,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Fields    Fields    `json:"fields,omitempty"`
	Error     error     `json:"-"`
}

// NewEntry creates an entry stamped with the current time
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}
