// Package executor validates resolved command lines against a registry and
// hands them to an Executor.
//
// A Dispatcher resolves the namespace, the command phrase and every
// argument key by abbreviation, checks required arguments, then invokes
// the Executor and blocks until it signals completion exactly once. Only
// one dispatch runs at a time per Dispatcher.
//
// CatalogExecutor runs commands declared in a registry.Catalog, either
// through an in-process handler or a shell template.
package executor
