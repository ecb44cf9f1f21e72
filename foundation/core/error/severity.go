// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of an error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Defaults for command language codes

package error

// Severity ranks how serious an error is
type Severity int

const (
	// SeverityLow covers user input mistakes such as a mistyped command
	SeverityLow Severity = iota
	// SeverityMedium covers failures of a single operation
	SeverityMedium
	// SeverityHigh covers failures that affect the whole session
	SeverityHigh
	// SeverityCritical covers failures that stop the process
	SeverityCritical
)

// String returns the lower-case name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SeverityForCode returns the default severity of code
func SeverityForCode(code Code) Severity {
	switch code.Category() {
	case "command", "control-flow":
		return SeverityLow
	case "config", "storage":
		return SeverityHigh
	}
	if code == CodeInternal {
		return SeverityHigh
	}
	return SeverityMedium
}
