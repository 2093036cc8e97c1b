package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/keepnotes/internal/app"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(flags, "")
			if err != nil {
				return err
			}
			logger.Info("starting keepnotes",
				slog.String("version", app.BuildVersion()),
				slog.String("log_level", cfg.Log.Level),
				slog.Bool("auth", cfg.Auth.Enabled),
				slog.Bool("metrics", cfg.Metrics.Enabled),
			)
			return app.New(*cfg, logger).Serve(cmd.Context())
		},
	}
}
