// File: classifier.go
// Title: Line Classifier
// Description: Assigns each raw script line exactly one statement kind.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

import (
	"strings"
)

// AssignmentOperator separates an assignment target from its statement
const AssignmentOperator = ":="

// Kind is the statement kind of a line
type Kind int

const (
	KindPlain Kind = iota
	KindAssignment
	KindIf
	KindElse
	KindEndIf
	KindFor
	KindEndFor
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindAssignment:
		return "ASSIGNMENT"
	case KindIf:
		return "IF"
	case KindElse:
		return "ELSE"
	case KindEndIf:
		return "END_IF"
	case KindFor:
		return "FOR"
	case KindEndFor:
		return "END_FOR"
	default:
		return "PLAIN"
	}
}

// Classify returns the kind of line. The first matching rule wins: an
// assignment operator anywhere, then the keywords IF, ELSE, END IF, FOR
// and END FOR at the start of the line, ignoring case and repeated
// whitespace. A keyword must be followed by whitespace or end the line,
// so "iface up" and "format" are plain commands.
func Classify(line string) Kind {
	if strings.Contains(line, AssignmentOperator) {
		return KindAssignment
	}

	normalized := strings.ToUpper(strings.Join(strings.Fields(line), " "))
	switch {
	case hasKeyword(normalized, "IF"):
		return KindIf
	case hasKeyword(normalized, "ELSE"):
		return KindElse
	case hasKeyword(normalized, "END IF"):
		return KindEndIf
	case hasKeyword(normalized, "FOR"):
		return KindFor
	case hasKeyword(normalized, "END FOR"):
		return KindEndFor
	}
	return KindPlain
}

func hasKeyword(line, keyword string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	return len(line) == len(keyword) || line[len(keyword)] == ' '
}
