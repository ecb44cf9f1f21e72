// File: stringx.go
// Title: String Utility Functions
// Description: Blank checks, rune-safe truncation and padding, and value
//              inference for textual key/value input.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-19 v0.2.0: InferValue moved here from config, unused helpers removed

package stringx

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if s is empty or contains only whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank is the inverse of IsBlank
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate shortens s to maxLen runes, ending with ellipsis when cut
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	keep := maxLen - utf8.RuneCountInString(ellipsis)
	if keep <= 0 {
		return string([]rune(ellipsis)[:maxLen])
	}
	return string([]rune(s)[:keep]) + ellipsis
}

// PadRight pads s with spaces to width runes
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// InferValue converts text to a bool, int or float64 when it parses as
// one, and returns it unchanged otherwise
func InferValue(value string) interface{} {
	if value == "true" || value == "false" {
		return value == "true"
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
