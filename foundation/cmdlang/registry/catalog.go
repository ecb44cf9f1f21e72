// File: catalog.go
// Title: In-Memory Command Catalog
// Description: Thread-safe Registry implementation holding namespace and
//              command definitions registered in code or loaded from
//              catalog files.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Simple object registry
// - 2026-10-19 v0.2.0: Namespaced command catalog with foundation errors

package registry

import (
	"sort"
	"strings"
	"sync"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	mdwslicex "github.com/msto63/cmdscript/foundation/utils/slicex"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

// Catalog is the in-memory Registry. Names are matched case-insensitively
// and reported with the case they were registered with.
type Catalog struct {
	namespaces map[string]*NamespaceDefinition
	logger     *mdwlog.Logger
	mutex      sync.RWMutex
}

var _ Registry = (*Catalog)(nil)

// NewCatalog creates an empty catalog
func NewCatalog(opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Catalog{
		namespaces: make(map[string]*NamespaceDefinition),
		logger:     opts.Logger.WithField("component", "cmdlang-registry"),
	}
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Register adds a namespace with its commands. Commands of an already
// registered namespace are merged; a duplicate command is an error.
func (c *Catalog) Register(ns *NamespaceDefinition) error {
	if ns == nil {
		return mdwerror.New("namespace definition cannot be nil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("registry.Register")
	}
	if mdwstringx.IsBlank(ns.Name) || strings.ContainsAny(strings.TrimSpace(ns.Name), " \t") {
		return mdwerror.New("namespace name must be a single word").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("registry.Register").
			WithDetail("namespace", ns.Name)
	}
	for _, cmd := range ns.Commands {
		if err := validateCommand(ns.Name, cmd); err != nil {
			return err
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	existing, ok := c.namespaces[key(ns.Name)]
	if !ok {
		existing = &NamespaceDefinition{Name: strings.TrimSpace(ns.Name), Description: ns.Description}
		c.namespaces[key(ns.Name)] = existing
	} else if existing.Description == "" {
		existing.Description = ns.Description
	}
	for _, cmd := range ns.Commands {
		if findCommand(existing, cmd.Name) != nil {
			return mdwerror.Newf("command '%s %s' already registered", existing.Name, cmd.Name).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("registry.Register")
		}
	}
	for _, cmd := range ns.Commands {
		cmd.Name = strings.Join(strings.Fields(cmd.Name), " ")
		existing.Commands = append(existing.Commands, cmd)
	}

	c.logger.Debug("namespace registered", mdwlog.Fields{
		"namespace":    existing.Name,
		"commandCount": len(existing.Commands),
	})
	return nil
}

// RegisterCommand adds a single command, creating the namespace if needed
func (c *Catalog) RegisterCommand(namespace string, cmd *CommandDefinition) error {
	return c.Register(&NamespaceDefinition{Name: namespace, Commands: []*CommandDefinition{cmd}})
}

func validateCommand(namespace string, cmd *CommandDefinition) error {
	if cmd == nil || mdwstringx.IsBlank(cmd.Name) {
		return mdwerror.New("command name cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("registry.Register").
			WithDetail("namespace", namespace)
	}
	seen := make(map[string]bool)
	for _, arg := range cmd.Arguments {
		if arg == nil || mdwstringx.IsBlank(arg.Name) || strings.ContainsAny(arg.Name, " \t=\"") {
			return mdwerror.Newf("command '%s %s' has an invalid argument name", namespace, cmd.Name).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("registry.Register")
		}
		if seen[arg.Name] {
			return mdwerror.Newf("argument '%s' declared twice for '%s %s'", arg.Name, namespace, cmd.Name).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("registry.Register")
		}
		seen[arg.Name] = true
	}
	return nil
}

func findCommand(ns *NamespaceDefinition, name string) *CommandDefinition {
	k := key(name)
	for _, cmd := range ns.Commands {
		if key(cmd.Name) == k {
			return cmd
		}
	}
	return nil
}

// Namespace returns the definition of a namespace
func (c *Catalog) Namespace(name string) (*NamespaceDefinition, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	ns, ok := c.namespaces[key(name)]
	return ns, ok
}

// Lookup returns the definition of a command
func (c *Catalog) Lookup(namespace, command string) (*CommandDefinition, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	ns, ok := c.namespaces[key(namespace)]
	if !ok {
		return nil, false
	}
	cmd := findCommand(ns, command)
	return cmd, cmd != nil
}

func (c *Catalog) argument(namespace, command, argument string) *ArgumentDefinition {
	cmd, ok := c.Lookup(namespace, command)
	if !ok {
		return nil
	}
	arg, _ := cmd.Argument(argument)
	return arg
}

// Namespaces returns the sorted namespace names
func (c *Catalog) Namespaces() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := make([]string, 0, len(c.namespaces))
	for _, ns := range c.namespaces {
		names = append(names, ns.Name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the sorted command names of a namespace
func (c *Catalog) Commands(namespace string) []string {
	ns, ok := c.Namespace(namespace)
	if !ok {
		return nil
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := mdwslicex.Map(ns.Commands, func(cmd *CommandDefinition) string { return cmd.Name })
	sort.Strings(names)
	return names
}

// Arguments returns the argument names of a command in declaration order
func (c *Catalog) Arguments(namespace, command string) []string {
	cmd, ok := c.Lookup(namespace, command)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cmd.Arguments))
	for _, arg := range cmd.Arguments {
		names = append(names, arg.Name)
	}
	return names
}

// IsArgumentRequired reports whether the argument must be supplied
func (c *Catalog) IsArgumentRequired(namespace, command, argument string) bool {
	arg := c.argument(namespace, command, argument)
	return arg != nil && arg.Required
}

// Description returns the short description of a command
func (c *Catalog) Description(namespace, command string) string {
	if cmd, ok := c.Lookup(namespace, command); ok {
		return cmd.Description
	}
	return ""
}

// LongDescription returns the long description of a command
func (c *Catalog) LongDescription(namespace, command string) string {
	if cmd, ok := c.Lookup(namespace, command); ok {
		return cmd.LongDescription
	}
	return ""
}

// ArgumentDescription returns the description of an argument
func (c *Catalog) ArgumentDescription(namespace, command, argument string) string {
	if arg := c.argument(namespace, command, argument); arg != nil {
		return arg.Description
	}
	return ""
}

// TypeHint returns the declared type of an argument
func (c *Catalog) TypeHint(namespace, command, argument string) TypeHint {
	if arg := c.argument(namespace, command, argument); arg != nil {
		return HintFor(arg)
	}
	return TypeHint{Kind: KindString}
}
