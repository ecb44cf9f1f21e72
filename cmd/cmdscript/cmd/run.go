package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	mdwtimex "github.com/msto63/cmdscript/foundation/utils/timex"
)

var scriptArgs string

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script file",
	Long: `Runs a script line by line in a fresh session. A failing line is
reported and the run continues. Use "-" to read the script from stdin.

Script arguments are bound as variables before the first line:
  cmdscript run import.cmd --args file:data.sif,limit:10`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&scriptArgs, "args", "a", "", "script arguments as k:v,k:v")
}

func runScript(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := a.newSession(console())
	if err != nil {
		printError("failed to create session", err)
		return err
	}

	var report *cmdlang.ScriptReport
	if args[0] == "-" {
		report, err = session.RunScript(ctx, os.Stdin, scriptArgs)
	} else {
		report, err = session.RunScriptFile(ctx, args[0], scriptArgs)
	}
	if err != nil {
		printError("script failed", err)
		return err
	}

	a.logger.Debug("Script finished", mdwlog.Fields{
		"lines":      report.Lines,
		"failed":     len(report.Failed),
		"duration":   mdwtimex.FormatDurationCompact(report.Duration),
	})
	if !report.OK() {
		err := fmt.Errorf("%d of %d lines failed in %s", len(report.Failed), report.Lines,
			mdwtimex.FormatDurationCompact(report.Duration))
		printError("script finished with errors", err)
		return err
	}
	return nil
}
