package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	"github.com/msto63/cmdscript/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sessions over WebSocket",
	Long: `Starts the command server. Every WebSocket connection on /ws owns an
independent session; /health reports the server status.

Examples:
  cmdscript serve
  cmdscript serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()
	a.watchConfig()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.GetString("server.addr")
	}

	cfg := server.DefaultConfig()
	cfg.Addr = addr
	cfg.Version = Version
	cfg.Logger = a.logger
	cfg.AllowedOrigins = a.cfg.GetStringSlice("server.allowed_origins")
	srv, err := server.New(cfg, a.newSession)
	if err != nil {
		printError("failed to create server", err)
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			printError("server failed", err)
		}
		return err
	case sig := <-sigCh:
		a.logger.Info("Shutting down", mdwlog.Fields{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
