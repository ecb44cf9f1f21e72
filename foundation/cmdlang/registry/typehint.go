// File: typehint.go
// Title: Argument Type Hints
// Description: Describes the declared type of an argument for help output
//              and checks raw argument values against it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Type hint kinds
const (
	KindString  = "string"
	KindInteger = "integer"
	KindFloat   = "float"
	KindBoolean = "boolean"
	KindChoice  = "choice"
	KindFile    = "file"
	KindList    = "list"
)

// TypeHint is the declared type of an argument
type TypeHint struct {
	Kind   string
	Values []string
	Min    *float64
	Max    *float64
}

// HintFor derives the hint of an argument definition. Unknown type names
// are kept as given.
func HintFor(arg *ArgumentDefinition) TypeHint {
	hint := TypeHint{Values: arg.Values, Min: arg.Min, Max: arg.Max}
	switch strings.ToLower(strings.TrimSpace(arg.Type)) {
	case "", "string", "text":
		hint.Kind = KindString
	case "int", "integer", "long":
		hint.Kind = KindInteger
	case "float", "double", "number":
		hint.Kind = KindFloat
	case "bool", "boolean":
		hint.Kind = KindBoolean
	case "choice", "enum":
		hint.Kind = KindChoice
	case "file", "path":
		hint.Kind = KindFile
	case "list":
		hint.Kind = KindList
	default:
		hint.Kind = strings.ToLower(arg.Type)
	}
	if hint.Kind == KindString && len(arg.Values) > 0 {
		hint.Kind = KindChoice
	}
	return hint
}

// String renders the hint for help output
func (h TypeHint) String() string {
	switch h.Kind {
	case KindBoolean:
		return "true|false"
	case KindChoice:
		return "one of " + strings.Join(h.Values, "|")
	case KindInteger, KindFloat:
		name := "<" + capitalize(h.Kind)
		if h.Min != nil || h.Max != nil {
			name += " (" + bound(h.Min) + ".." + bound(h.Max) + ")"
		}
		return name + ">"
	case "":
		return "<String>"
	default:
		return "<" + capitalize(h.Kind) + ">"
	}
}

// Validate checks a raw value against the hint
func (h TypeHint) Validate(value string) error {
	switch h.Kind {
	case KindBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%q is not true or false", value)
		}
	case KindChoice:
		for _, v := range h.Values {
			if strings.EqualFold(v, value) {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %s", value, strings.Join(h.Values, ", "))
	case KindInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		return h.checkRange(float64(n), value)
	case KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		return h.checkRange(f, value)
	}
	return nil
}

func (h TypeHint) checkRange(n float64, value string) error {
	if (h.Min != nil && n < *h.Min) || (h.Max != nil && n > *h.Max) {
		return fmt.Errorf("%s is outside %s..%s", value, bound(h.Min), bound(h.Max))
	}
	return nil
}

func bound(b *float64) string {
	if b == nil {
		return ""
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
