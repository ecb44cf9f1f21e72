// File: statement.go
// Title: Statements
// Description: The result of processing one line: a command to dispatch,
//              an assignment, a loop body to replay, or nothing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

// StatementKind tags the variant of a Statement
type StatementKind int

const (
	// StatementControl carries nothing to execute
	StatementControl StatementKind = iota
	// StatementPlain is a substituted command line ready to dispatch
	StatementPlain
	// StatementAssignment is a command whose result is bound to Target
	StatementAssignment
	// StatementLoopBody holds the raw lines of a loop body to replay
	StatementLoopBody
)

// String returns the name of the kind
func (k StatementKind) String() string {
	switch k {
	case StatementPlain:
		return "Plain"
	case StatementAssignment:
		return "Assignment"
	case StatementLoopBody:
		return "LoopBody"
	default:
		return "Control"
	}
}

// Statement is a tagged union. Text is set for Plain and Assignment,
// Target only for Assignment, Lines only for LoopBody.
type Statement struct {
	Kind   StatementKind
	Text   string
	Target string
	Lines  []string
}

// Plain returns a Plain statement
func Plain(text string) Statement {
	return Statement{Kind: StatementPlain, Text: text}
}

// Assignment returns an Assignment statement
func Assignment(text, target string) Statement {
	return Statement{Kind: StatementAssignment, Text: text, Target: target}
}

// LoopBody returns a LoopBody statement holding a copy of lines
func LoopBody(lines []string) Statement {
	return Statement{Kind: StatementLoopBody, Lines: append([]string(nil), lines...)}
}

// Control returns a Control statement
func Control() Statement {
	return Statement{Kind: StatementControl}
}

// Executable reports whether the statement carries a command to dispatch
func (s Statement) Executable() bool {
	return s.Kind == StatementPlain || s.Kind == StatementAssignment
}
