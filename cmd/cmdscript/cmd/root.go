package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	logLevel    string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "cmdscript",
	Short: "cmdscript - command language engine",
	Long: `cmdscript runs lines of a small command language against a catalog
of namespaced commands.

  network load file file="a.sif"     dispatch a command (prefixes allowed)
  $n := node count                   bind a result to a variable
  IF $n > 0 THEN ... ELSE ... END IF conditional block
  FOR WHILE $i < 3 LOOP ... END FOR  loop
  help [namespace [command]]         describe the catalog

Commands:
  run      - Run a script file
  shell    - Start an interactive session
  serve    - Serve sessions over WebSocket
  catalog  - Inspect and validate catalog files`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: discovered cmdscript.toml|yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (overrides catalog.path)")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
