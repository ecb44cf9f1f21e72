// File: timer.go
// Title: Operation Timers
// Description: Measures the duration of an operation and logs its outcome
//              together with optional intermediate checkpoints.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Shared completion path for Stop and StopWithError

package log

import (
	"time"
)

// Timer measures one operation
type Timer struct {
	logger    *Logger
	operation string
	level     Level
	start     time.Time
	fields    Fields
	stopped   bool
}

// NewTimer starts a timer for operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		level:     LevelDebug,
		start:     time.Now(),
		fields:    Fields{},
	}
}

// WithLevel sets the level used for successful completion
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field logged on completion
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Checkpoint logs an intermediate step at TRACE
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	if t.stopped || t.logger == nil {
		return
	}
	merged := t.fields.Merge(Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed":    t.Elapsed().String(),
	})
	for _, f := range fields {
		merged = merged.Merge(f)
	}
	t.logger.Trace(t.operation+" checkpoint", merged)
}

// Stop logs successful completion and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	return t.finish(nil)
}

// StopWithError logs failure with err and returns the elapsed time
func (t *Timer) StopWithError(err error) time.Duration {
	return t.finish(err)
}

func (t *Timer) finish(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()
	if t.logger == nil {
		return elapsed
	}

	fields := t.fields.Merge(Fields{
		"operation":   t.operation,
		"duration_ms": float64(elapsed.Microseconds()) / 1000,
		"success":     err == nil,
	})
	if err != nil {
		t.logger.ErrorWithErr(t.operation+" failed", err, fields)
		return elapsed
	}
	t.logger.log(t.level, t.operation+" completed", nil, []Fields{fields})
	return elapsed
}
