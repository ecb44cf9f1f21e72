// Package cmdlang implements a line-oriented command language with
// variables, conditionals and loops on top of a registry of namespaced
// commands.
//
// # Grammar
//
// One statement per line:
//
//	# comment                         ignored, as are blank lines
//	<namespace> <command...> [k=v]    dispatch, names may be abbreviated
//	help [all | <ns> [<command...>]]  help from the registry
//	$var := <statement>               bind an expression or command result
//	IF <condition> THEN ... ELSE ... END IF
//	FOR WHILE <condition> LOOP ... END FOR
//
// Namespaces, commands and argument names are matched by abbreviation: each
// word of the input must be a case-insensitive prefix of the corresponding
// word of exactly one candidate. "netw lo f file=x.sif" resolves to the
// command "network load file" when no other command matches.
//
// Variable references ($name) are substituted before a line is dispatched.
// String values are inserted quoted, other values literally. Conditions and
// the right-hand side of assignments are evaluated as expressions; when the
// right-hand side is not a valid expression it is dispatched as a command
// and its result is bound instead:
//
//	$i := 0
//	FOR WHILE $i < 3 LOOP
//	  network create name=$i
//	  $i := $i + 1
//	END FOR
//
// IF and FOR blocks cannot be nested. Loop bodies are recorded during the
// first pass and replayed, with fresh substitution, while the condition
// holds.
//
// # Sessions
//
// A Session owns the variable store and control-flow state of one user or
// script run. Sessions share nothing, so each connection or script gets its
// own:
//
//	catalog := registry.NewCatalog(registry.Options{})
//	_ = catalog.Load("commands.yaml")
//
//	session, err := cmdlang.NewSession(cmdlang.Options{
//		Registry:  catalog,
//		Presenter: presenter.NewConsole(os.Stdout, true),
//	})
//	if err != nil {
//		return err
//	}
//	report, err := session.RunScriptFile(ctx, "setup.cmd", "count:3,name:demo")
//
// Every session provides the builtin "command echo variableName=<name|*>".
// Errors are reported to the Presenter as single messages and returned as
// *mdwerror.Error values carrying one of the command language codes.
package cmdlang
