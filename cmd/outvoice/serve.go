package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/outvoice/backend/internal/bootstrap"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: `  # Serve on the configured port
  outvoice serve

  # Serve on another port
  outvoice serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadRuntime(false)
			if err != nil {
				return err
			}
			defer logger.Sync(log)
			if port != "" {
				cfg.App.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			serveErr := app.Serve(ctx)
			if err := app.Close(context.Background()); err != nil {
				log.Error("Shutdown finished with errors", zap.Error(err))
			}
			return serveErr
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides app.port)")
	return cmd
}
