// Package cli implements helpdeskctl, the operator tool for the helpdesk
// service: trying the classifier from a terminal, seeding the knowledge base
// and managing schema migrations.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "helpdeskctl",
	Short: "Operator tool for the IT helpdesk service",
	Long: `helpdeskctl runs maintenance tasks against the helpdesk service's
configuration and database. Settings are read from the same environment
variables (and optional .env file) as the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadRuntime reads configuration and builds the logger shared by commands.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
