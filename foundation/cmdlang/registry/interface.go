// File: interface.go
// Title: Registry Interface and Definitions
// Description: The read-only view of available commands used by the
//              dispatcher and the help renderer, and the definition types
//              a Catalog stores.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Object/method registry interface
// - 2026-10-19 v0.2.0: Namespaces, multi-word commands and type hints

package registry

import (
	"context"

	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// Registry lists what can be dispatched. Names passed in are canonical
// names as returned by the listing methods.
type Registry interface {
	Namespaces() []string
	Commands(namespace string) []string
	Arguments(namespace, command string) []string
	IsArgumentRequired(namespace, command, argument string) bool
	Description(namespace, command string) string
	LongDescription(namespace, command string) string
	ArgumentDescription(namespace, command, argument string) string
	TypeHint(namespace, command, argument string) TypeHint
}

// HandlerFunc implements a command in-process. The result is either a
// string or a value rendered as JSON.
type HandlerFunc func(ctx context.Context, args map[string]string) (interface{}, error)

// NamespaceDefinition groups related commands
type NamespaceDefinition struct {
	Name        string               `yaml:"name" toml:"name"`
	Description string               `yaml:"description" toml:"description"`
	Commands    []*CommandDefinition `yaml:"commands" toml:"commands"`
}

// CommandDefinition describes one command. Run is a text/template
// executed by the shell executor; Handler takes precedence when set.
type CommandDefinition struct {
	Name            string                `yaml:"name" toml:"name"`
	Description     string                `yaml:"description" toml:"description"`
	LongDescription string                `yaml:"long_description" toml:"long_description"`
	Arguments       []*ArgumentDefinition `yaml:"arguments" toml:"arguments"`
	Run             string                `yaml:"run" toml:"run"`
	Examples        []string              `yaml:"examples" toml:"examples"`
	Handler         HandlerFunc           `yaml:"-" toml:"-"`
}

// ArgumentDefinition describes one command argument
type ArgumentDefinition struct {
	Name        string   `yaml:"name" toml:"name"`
	Type        string   `yaml:"type" toml:"type"`
	Required    bool     `yaml:"required" toml:"required"`
	Description string   `yaml:"description" toml:"description"`
	Default     string   `yaml:"default" toml:"default"`
	Values      []string `yaml:"values" toml:"values"`
	Min         *float64 `yaml:"min" toml:"min"`
	Max         *float64 `yaml:"max" toml:"max"`
}

// Argument returns the argument named name
func (c *CommandDefinition) Argument(name string) (*ArgumentDefinition, bool) {
	for _, arg := range c.Arguments {
		if arg.Name == name {
			return arg, true
		}
	}
	return nil, false
}

// Options configures a Catalog
type Options struct {
	Logger *mdwlog.Logger
}
