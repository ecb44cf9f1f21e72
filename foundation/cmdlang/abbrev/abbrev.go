// File: abbrev.go
// Title: Unique Abbreviation Resolver
// Description: Resolves possibly abbreviated, possibly multi-word input
//              against canonical names. Used for namespaces, commands and
//              argument names alike.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package abbrev resolves abbreviated names against candidate lists.
//
// A candidate matches when it has as many words as the input and each of
// its words starts with the corresponding input word, ignoring case. When
// several candidates match, a candidate wins if, at the first word where
// it and a rival differ in kind of match, its word is an exact match and
// the rival's is only a prefix. The winner must beat every other match,
// otherwise the input is ambiguous.
package abbrev

import (
	"errors"
	"strings"
)

var (
	// ErrNoMatch reports that no candidate matches the input
	ErrNoMatch = errors.New("not found")
	// ErrAmbiguous reports that several candidates match and none wins
	ErrAmbiguous = errors.New("not unique")
)

// Resolve returns the candidate input abbreviates, or ErrNoMatch or
// ErrAmbiguous
func Resolve(input string, candidates []string) (string, error) {
	words := strings.Fields(input)
	if len(words) == 0 {
		return "", ErrNoMatch
	}

	var matches [][]string
	var names []string
	for _, candidate := range candidates {
		candidateWords := strings.Fields(candidate)
		if matchesWords(words, candidateWords) {
			matches = append(matches, candidateWords)
			names = append(names, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", ErrNoMatch
	case 1:
		return names[0], nil
	}

	best := 0
	for i := 1; i < len(matches); i++ {
		if compare(words, matches[i], matches[best]) > 0 {
			best = i
		}
	}
	for i := range matches {
		if i != best && compare(words, matches[best], matches[i]) <= 0 {
			return "", ErrAmbiguous
		}
	}
	return names[best], nil
}

// Match is Resolve without the reason for a failure
func Match(input string, candidates []string) (string, bool) {
	name, err := Resolve(input, candidates)
	return name, err == nil
}

func matchesWords(input, candidate []string) bool {
	if len(input) != len(candidate) {
		return false
	}
	for i, word := range input {
		if !strings.HasPrefix(strings.ToLower(candidate[i]), strings.ToLower(word)) {
			return false
		}
	}
	return true
}

// compare returns 1 when a is preferred over b, -1 when b is preferred
// and 0 when neither is. Both must match input.
func compare(input, a, b []string) int {
	for i, word := range input {
		exactA := strings.EqualFold(a[i], word)
		exactB := strings.EqualFold(b[i], word)
		switch {
		case exactA && !exactB:
			return 1
		case exactB && !exactA:
			return -1
		}
	}
	return 0
}
