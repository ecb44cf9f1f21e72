// Package error provides the structured error type used by cmdscript.
//
// Errors carry a Code naming their kind, a Severity, the operation that
// raised them and a map of details:
//
//	return mdwerror.New("command not found").
//		WithCode(mdwerror.CodeUnresolvedSymbol).
//		WithOperation("executor.Dispatch").
//		WithDetail("namespace", ns)
//
// Error() returns only the message (and the message of a wrapped cause),
// which is what the presenter shows to a user. Codes, details and the
// operation are meant for logs.
package error
