package main

import (
	"github.com/outvoice/backend/internal/bootstrap"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCmd builds the outvoice command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "outvoice",
		Short: "Outvoice invoicing backend",
		Long: `Outvoice runs the invoicing API and offers offline tooling over the
same in-memory data, such as rendering the sales report to a file.

Configuration comes from config.toml, .env and OUTVOICE_* environment
variables, the same way the server reads it.`,
		Version:       bootstrap.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newReportCmd())
	return root
}

// loadRuntime reads the configuration and builds the logger for a command.
// CLI output goes to stdout, so logs are sent to stderr unless a file is set.
func loadRuntime(quiet bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	output := cfg.Log.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	level := cfg.Log.Level
	if quiet {
		level = "error"
	}
	log, err := logger.New(&logger.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: output,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
