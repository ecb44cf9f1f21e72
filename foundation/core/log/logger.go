// File: logger.go
// Title: Structured Logger
// Description: Implements the leveled, structured logger. Derived loggers
//              share one sink, so changing the level of the root logger
//              (for example after a configuration reload) affects every
//              component logger created from it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Shared sink, session-scoped loggers, async mode removed

package log

import (
	"io"
	"os"
	"sync"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// sink is the state shared by a logger and all loggers derived from it
type sink struct {
	mu        sync.Mutex
	level     Level
	formatter Formatter
	output    io.Writer
}

// Logger writes structured entries to its sink
type Logger struct {
	sink      *sink
	name      string
	sessionID string
	requestID string
	fields    Fields
}

// Config configures a new logger
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a logger writing text at INFO level to stderr
func New() *Logger {
	return NewWithConfig(Config{Level: LevelInfo, Format: FormatText})
}

// NewWithConfig creates a logger from config
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		sink: &sink{
			level:     config.Level,
			formatter: NewFormatter(config.Format),
			output:    output,
		},
		name:   config.Name,
		fields: Fields{},
	}
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelFatal, Output: io.Discard})
}

func (l *Logger) derive() *Logger {
	child := *l
	child.fields = l.fields.Merge(nil)
	return &child
}

// WithName returns a logger with the given logger name
func (l *Logger) WithName(name string) *Logger {
	child := l.derive()
	child.name = name
	return child
}

// WithField returns a logger that adds key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	child := l.derive()
	child.fields[key] = value
	return child
}

// WithFields returns a logger that adds fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	child := l.derive()
	child.fields = child.fields.Merge(fields)
	return child
}

// WithSession returns a logger tagged with a session ID
func (l *Logger) WithSession(sessionID string) *Logger {
	child := l.derive()
	child.sessionID = sessionID
	return child
}

// WithRequestID returns a logger tagged with a request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	child := l.derive()
	child.requestID = requestID
	return child
}

// SetLevel changes the level of the shared sink
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// SetFormat changes the formatter of the shared sink
func (l *Logger) SetFormat(format Format) {
	l.sink.mu.Lock()
	l.sink.formatter = NewFormatter(format)
	l.sink.mu.Unlock()
}

// GetLevel returns the level of the shared sink
func (l *Logger) GetLevel() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// IsLevelEnabled reports whether entries of level would be written
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.GetLevel())
}

// Trace logs message at TRACE
func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, fields)
}

// Debug logs message at DEBUG
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields)
}

// Info logs message at INFO
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields)
}

// Warn logs message at WARN
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields)
}

// Error logs message at ERROR
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields)
}

// Audit logs message at AUDIT
func (l *Logger) Audit(message string, fields ...Fields) {
	l.log(LevelAudit, message, nil, fields)
}

// ErrorWithErr logs message at ERROR with err attached
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields)
}

// WarnWithErr logs message at WARN with err attached
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields)
}

// LogError logs err at a level derived from its severity. Structured
// errors contribute their code, operation and details as fields.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	mdwErr, ok := mdwerror.As(err)
	if !ok {
		l.log(LevelError, err.Error(), err, nil)
		return
	}

	fields := Fields{
		"error_code":     string(mdwErr.Code()),
		"error_severity": mdwErr.Severity().String(),
	}
	if op := mdwErr.Operation(); op != "" {
		fields["error_operation"] = op
	}
	for k, v := range mdwErr.Details() {
		fields["error_"+k] = v
	}

	level := LevelError
	switch mdwErr.Severity() {
	case mdwerror.SeverityLow:
		level = LevelInfo
	case mdwerror.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, mdwErr.Message(), err, []Fields{fields})
}

// StartTimer starts a timer that logs through l
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

func (l *Logger) log(level Level, message string, err error, fields []Fields) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if !level.ShouldLog(l.sink.level) {
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.SessionID = l.sessionID
	entry.RequestID = l.requestID
	entry.Error = err
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, set := range fields {
		for k, v := range set {
			entry.Fields[k] = v
		}
	}

	if formatted, formatErr := l.sink.formatter.Format(entry); formatErr == nil {
		_, _ = l.sink.output.Write(formatted)
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the process default logger
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process default logger
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}
