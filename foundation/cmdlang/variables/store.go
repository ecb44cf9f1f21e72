// File: store.go
// Title: Variable Store and Substitutor
// Description: Stores named bindings for one session and replaces $name
//              references in lines with the bound values.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package variables

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwmapx "github.com/msto63/cmdscript/foundation/utils/mapx"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

// ReservedName can never be bound
const ReservedName = "var"

var (
	referencePattern  = regexp.MustCompile(`\$(\w+)`)
	identifierPattern = regexp.MustCompile(`^\w+$`)
)

// Store holds the bindings of one session
type Store struct {
	mu       sync.RWMutex
	bindings map[string]interface{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{bindings: make(map[string]interface{})}
}

// Set binds name to value, replacing any previous binding
func (s *Store) Set(name string, value interface{}) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	s.bindings[name] = value
	s.mu.Unlock()
	return nil
}

// Get returns the value bound to name
func (s *Store) Get(name string) (interface{}, error) {
	s.mu.RLock()
	value, ok := s.bindings[name]
	s.mu.RUnlock()
	if !ok {
		return nil, undefined(name, "variables.Get")
	}
	return value, nil
}

// Exists reports whether name is bound
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bindings[name]
	return ok
}

// Names returns the bound names in sorted order
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mdwmapx.SortedKeys(s.bindings)
}

// Snapshot returns a copy of the bindings for use as an evaluation
// environment
func (s *Store) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mdwmapx.Clone(s.bindings)
}

// Substitute replaces every $name in line with its value. Strings are
// wrapped in double quotes, other values use their literal form. The
// first unbound reference fails the whole substitution, and so does a
// string holding a double quote, which the lexer could not read back.
func (s *Store) Substitute(line string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	last := 0
	for _, loc := range referencePattern.FindAllStringSubmatchIndex(line, -1) {
		name := line[loc[2]:loc[3]]
		value, ok := s.bindings[name]
		if !ok {
			return "", undefined(name, "variables.Substitute")
		}
		if str, isString := value.(string); isString && strings.Contains(str, `"`) {
			return "", mdwerror.New(fmt.Sprintf("value of '$%s' contains a double quote and cannot be substituted", name)).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("variables.Substitute").
				WithDetail("variable", name)
		}
		b.WriteString(line[last:loc[0]])
		b.WriteString(Format(value))
		last = loc[1]
	}
	b.WriteString(line[last:])
	return b.String(), nil
}

// Format renders value the way Substitute inserts it
func Format(value interface{}) string {
	switch v := value.(type) {
	case string:
		return `"` + v + `"`
	case nil:
		return `""`
	default:
		return fmt.Sprint(v)
	}
}

// Display renders value without quoting, for user-facing output
func Display(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// StripPrefix removes the $ of every variable reference so that an
// expression can refer to bindings by name
func StripPrefix(expression string) string {
	return referencePattern.ReplaceAllString(expression, "$1")
}

// ValidateName checks that name is an identifier and not reserved
func ValidateName(name string) error {
	if name == ReservedName {
		return mdwerror.New(fmt.Sprintf("'%s' is a reserved name and cannot be used as a variable", name)).
			WithCode(mdwerror.CodeReservedName).
			WithOperation("variables.ValidateName").
			WithDetail("variable", name)
	}
	if !identifierPattern.MatchString(name) {
		return mdwerror.New(fmt.Sprintf("invalid variable name '%s'", name)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("variables.ValidateName").
			WithDetail("variable", name)
	}
	return nil
}

// ParseAssignments parses "k:v,k:v" into bindings. Each pair splits on its
// first ':' and values are typed with InferValue.
func ParseAssignments(args string) (map[string]interface{}, error) {
	bindings := make(map[string]interface{})
	if mdwstringx.IsBlank(args) {
		return bindings, nil
	}
	for _, pair := range strings.Split(args, ",") {
		key, value, ok := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, mdwerror.New("Invalid arguments supplied. Argument: "+pair).
				WithCode(mdwerror.CodeInvalidArguments).
				WithOperation("variables.ParseAssignments").
				WithDetail("argument", pair)
		}
		if err := ValidateName(key); err != nil {
			return nil, err
		}
		bindings[key] = mdwstringx.InferValue(strings.TrimSpace(value))
	}
	return bindings, nil
}

func undefined(name, operation string) error {
	return mdwerror.New(fmt.Sprintf("undefined variable '$%s'", name)).
		WithCode(mdwerror.CodeUndefinedVariable).
		WithOperation(operation).
		WithDetail("variable", name)
}
