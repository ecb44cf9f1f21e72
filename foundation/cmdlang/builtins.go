// File: builtins.go
// Title: Builtin Commands
// Description: Commands every session provides regardless of the
//              registry, such as inspecting variables.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package cmdlang

import (
	"context"
	"fmt"
	"strings"

	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	"github.com/msto63/cmdscript/foundation/cmdlang/variables"
)

// Builtin namespace and command names
const (
	BuiltinNamespace = "command"
	EchoCommand      = "echo"
	EchoArgument     = "variableName"
)

func (s *Session) builtinNamespace() *registry.NamespaceDefinition {
	return &registry.NamespaceDefinition{
		Name:        BuiltinNamespace,
		Description: "Session commands",
		Commands: []*registry.CommandDefinition{
			{
				Name:            EchoCommand,
				Description:     "Show the value of a variable",
				LongDescription: "Use variableName=* to list every variable of the session.",
				Arguments: []*registry.ArgumentDefinition{
					{Name: EchoArgument, Required: true, Description: "Variable name without '$', or * for all"},
				},
				Handler: s.echo,
			},
		},
	}
}

func (s *Session) echo(_ context.Context, args map[string]string) (interface{}, error) {
	name := strings.TrimPrefix(strings.Trim(args[EchoArgument], `"`), "$")
	if name == "*" {
		names := s.store.Names()
		if len(names) == 0 {
			return "No variables defined", nil
		}
		lines := make([]string, 0, len(names))
		for _, n := range names {
			value, _ := s.store.Get(n)
			lines = append(lines, fmt.Sprintf("%s = %s", n, variables.Format(value)))
		}
		return strings.Join(lines, "\n"), nil
	}

	value, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("The value of variable '%s' is: '%s'", name, variables.Display(value)), nil
}
