package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/cmdscript/internal/shell"
)

var lineMode bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Starts an interactive session. On a terminal the full screen shell
is used; otherwise lines are read from stdin.

Keys:
  Enter     - Run the line
  Up/Down   - Input history
  Ctrl+L    - Clear output
  Esc       - Quit (or type exit)`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().BoolVar(&lineMode, "line", false, "read plain lines even on a terminal")
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()
	a.watchConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = shell.Run(ctx, a.newSession, shell.Config{
		Prompt:   a.cfg.GetString("shell.prompt"),
		LineMode: lineMode,
	})
	if err != nil {
		printError("shell failed", err)
	}
	return err
}
