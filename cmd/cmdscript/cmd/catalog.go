package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate catalog files",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List the namespaces and commands of a catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogList,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that catalog files load",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogValidate,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		catalogPath = args[0]
	}
	a, err := newApp()
	if err != nil {
		printError("failed to load catalog", err)
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	namespaces := a.catalog.Namespaces()
	if len(namespaces) == 0 {
		fmt.Fprintln(out, "No namespaces defined")
		return nil
	}
	for _, ns := range namespaces {
		fmt.Fprintf(out, "%s\n", ns)
		for _, command := range a.catalog.Commands(ns) {
			fmt.Fprintf(out, "  %s  %s\n", mdwstringx.PadRight(command, 24), a.catalog.Description(ns, command))
			for _, arg := range a.catalog.Arguments(ns, command) {
				marker := ""
				if a.catalog.IsArgumentRequired(ns, command, arg) {
					marker = " (required)"
				}
				fmt.Fprintf(out, "      %s  %s\n", mdwstringx.PadRight(arg+marker, 30), a.catalog.TypeHint(ns, command, arg))
			}
		}
	}
	return nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var failed []string
	for _, path := range args {
		catalog := registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()})
		if err := catalog.Load(path); err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		commands := 0
		for _, ns := range catalog.Namespaces() {
			commands += len(catalog.Commands(ns))
		}
		fmt.Fprintf(out, "%s: ok (%d namespaces, %d commands)\n", path, len(catalog.Namespaces()), commands)
	}
	if len(failed) > 0 {
		return fmt.Errorf("invalid catalog files: %s", strings.Join(failed, ", "))
	}
	return nil
}
