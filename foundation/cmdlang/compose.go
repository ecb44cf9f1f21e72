// File: compose.go
// Title: Builtin and External Command Composition
// Description: Presents builtin namespaces and the caller's registry as a
//              single registry and routes execution to the matching
//              executor.
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
	"sort"

	"github.com/msto63/cmdscript/foundation/cmdlang/executor"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwslicex "github.com/msto63/cmdscript/foundation/utils/slicex"
)

// composite overlays builtins on an external registry. A builtin
// namespace hides an external namespace of the same name.
type composite struct {
	builtins *registry.Catalog
	external registry.Registry
}

var _ registry.Registry = (*composite)(nil)

func (c *composite) owner(namespace string) registry.Registry {
	if _, ok := c.builtins.Namespace(namespace); ok || c.external == nil {
		return c.builtins
	}
	return c.external
}

func (c *composite) Namespaces() []string {
	names := c.builtins.Namespaces()
	if c.external != nil {
		names = append(names, mdwslicex.Filter(c.external.Namespaces(), func(ns string) bool {
			_, builtin := c.builtins.Namespace(ns)
			return !builtin
		})...)
	}
	sort.Strings(names)
	return names
}

func (c *composite) Commands(namespace string) []string {
	return c.owner(namespace).Commands(namespace)
}

func (c *composite) Arguments(namespace, command string) []string {
	return c.owner(namespace).Arguments(namespace, command)
}

func (c *composite) IsArgumentRequired(namespace, command, argument string) bool {
	return c.owner(namespace).IsArgumentRequired(namespace, command, argument)
}

func (c *composite) Description(namespace, command string) string {
	return c.owner(namespace).Description(namespace, command)
}

func (c *composite) LongDescription(namespace, command string) string {
	return c.owner(namespace).LongDescription(namespace, command)
}

func (c *composite) ArgumentDescription(namespace, command, argument string) string {
	return c.owner(namespace).ArgumentDescription(namespace, command, argument)
}

func (c *composite) TypeHint(namespace, command, argument string) registry.TypeHint {
	return c.owner(namespace).TypeHint(namespace, command, argument)
}

// router sends builtin namespaces to the builtin executor
type router struct {
	builtins *registry.Catalog
	builtin  executor.Executor
	external executor.Executor
}

func (r *router) Execute(ctx context.Context, req *executor.Request, done executor.Completion) {
	if _, ok := r.builtins.Namespace(req.Namespace); ok {
		r.builtin.Execute(ctx, req, done)
		return
	}
	if r.external == nil {
		done(nil, mdwerror.New("no executor for namespace '"+req.Namespace+"'").
			WithCode(mdwerror.CodeExecutionFailed).
			WithOperation("cmdlang.Execute"))
		return
	}
	r.external.Execute(ctx, req, done)
}
