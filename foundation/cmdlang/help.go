// File: help.go
// Title: Help Rendering
// Description: Renders the help forms of the command language from the
//              registry: namespaces, all commands, the commands of one
//              namespace and the arguments of one command.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package cmdlang

import (
	"strings"

	"github.com/msto63/cmdscript/foundation/cmdlang/abbrev"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

// HelpKeyword starts a help line
const HelpKeyword = "help"

func isHelp(words []string) bool {
	return len(words) > 0 && strings.EqualFold(words[0], HelpKeyword)
}

// Help renders the help for the words following the help keyword
func (s *Session) Help(words []string) (string, error) {
	switch {
	case len(words) == 0:
		return s.helpNamespaces(), nil
	case len(words) == 1 && strings.EqualFold(words[0], "all"):
		return s.helpAll(), nil
	}

	ns, err := abbrev.Resolve(words[0], s.registry.Namespaces())
	if err != nil {
		return "", mdwerror.New("Can't find " + words[0] + " namespace").
			WithCode(mdwerror.CodeUnresolvedSymbol).
			WithOperation("cmdlang.Help").
			WithDetail("reason", err.Error())
	}
	if len(words) == 1 {
		return s.helpNamespace(ns), nil
	}

	phrase := strings.Join(words[1:], " ")
	cmd, err := abbrev.Resolve(phrase, s.registry.Commands(ns))
	if err != nil {
		return "", mdwerror.New("Can't find command '" + phrase + "' in " + ns + " namespace").
			WithCode(mdwerror.CodeUnresolvedSymbol).
			WithOperation("cmdlang.Help").
			WithDetail("reason", err.Error())
	}
	return s.helpCommand(ns, cmd), nil
}

func (s *Session) helpNamespaces() string {
	var b strings.Builder
	b.WriteString("Available namespaces:\n")
	for _, ns := range s.registry.Namespaces() {
		b.WriteString("  " + ns + "\n")
	}
	b.WriteString("Type 'help <namespace>' for its commands or 'help all' for every command.")
	return b.String()
}

func (s *Session) helpAll() string {
	var b strings.Builder
	for i, ns := range s.registry.Namespaces() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.helpNamespace(ns))
	}
	return b.String()
}

func (s *Session) helpNamespace(ns string) string {
	commands := s.registry.Commands(ns)
	width := 0
	for _, cmd := range commands {
		if len(cmd) > width {
			width = len(cmd)
		}
	}

	var b strings.Builder
	b.WriteString(ns + ":\n")
	if len(commands) == 0 {
		b.WriteString("  (no commands)\n")
	}
	for _, cmd := range commands {
		line := "  " + mdwstringx.PadRight(cmd, width)
		if desc := s.registry.Description(ns, cmd); desc != "" {
			line += "  " + desc
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) helpCommand(ns, cmd string) string {
	var b strings.Builder
	b.WriteString(ns + " " + cmd)
	if desc := s.registry.Description(ns, cmd); desc != "" {
		b.WriteString(": " + desc)
	}
	if long := s.registry.LongDescription(ns, cmd); long != "" {
		b.WriteString("\n" + long)
	}

	args := s.registry.Arguments(ns, cmd)
	if len(args) == 0 {
		return b.String()
	}
	b.WriteString("\nArguments:")
	for _, arg := range args {
		line := "  " + arg
		if s.registry.IsArgumentRequired(ns, cmd, arg) {
			line += " (required)"
		}
		line += "  " + s.registry.TypeHint(ns, cmd, arg).String()
		if desc := s.registry.ArgumentDescription(ns, cmd, arg); desc != "" {
			line += "  " + desc
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}
