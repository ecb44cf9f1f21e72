// File: codes.go
// Title: Error Codes
// Description: Defines the error codes used by the command language
//              engine and its ambient infrastructure, grouped by category.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Command language codes replace service/business codes

package error

// Code names the kind of an error
type Code string

const (
	// General
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Command language
	CodeParseError              Code = "PARSE_ERROR"
	CodeUnresolvedSymbol        Code = "UNRESOLVED_SYMBOL"
	CodeMissingRequiredArgument Code = "MISSING_REQUIRED_ARGUMENT"
	CodeUndefinedVariable       Code = "UNDEFINED_VARIABLE"
	CodeInvalidControlFlow      Code = "INVALID_CONTROL_FLOW"
	CodeConditionEvaluation     Code = "CONDITION_EVALUATION"
	CodeReservedName            Code = "RESERVED_NAME"
	CodeExecutionFailed         Code = "EXECUTION_FAILED"
	CodeInvalidArguments        Code = "INVALID_ARGUMENTS"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeStorageError Code = "STORAGE_ERROR"
)

// String implements fmt.Stringer
func (c Code) String() string {
	return string(c)
}

// Category returns the group a code belongs to
func (c Code) Category() string {
	switch c {
	case CodeParseError, CodeUnresolvedSymbol, CodeMissingRequiredArgument,
		CodeUndefinedVariable, CodeReservedName, CodeInvalidArguments:
		return "command"
	case CodeInvalidControlFlow, CodeConditionEvaluation:
		return "control-flow"
	case CodeExecutionFailed, CodeTimeout:
		return "execution"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "config"
	case CodeStorageError:
		return "storage"
	default:
		return "general"
	}
}
