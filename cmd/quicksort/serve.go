package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quicksort/backend/global"
	"quicksort/backend/server"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the folder monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lock, err := ctx.acquireLock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	app, err := ctx.openApp(os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Signer.Enabled() {
		global.Logger.Warn().Msg("auth.secret is not set, mutating routes are unauthenticated")
	}
	app.Monitor.Restore()

	err = server.ServeHTTP(signalCtx, app.Cfg.Addr(), app.Router)
	global.Logger.Info().Msg("shutting down")
	return err
}
