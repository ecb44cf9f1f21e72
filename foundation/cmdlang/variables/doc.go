// Package variables holds the variable bindings of one interpreter session
// and rewrites $name references in command lines.
//
// Substitution quotes string values so that the rewritten line can be
// handed to the expression evaluator:
//
//	store.Set("x", "hi")
//	store.Substitute("create $x") // `create "hi"`
//	store.Set("x", 5)
//	store.Substitute("create $x") // `create 5`
package variables
