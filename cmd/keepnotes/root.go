package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/keepnotes/internal/app"
	"github.com/heartmarshall/keepnotes/internal/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "keepnotes",
		Short: "A small notes service with active, archived and trashed collections",
		Long: `keepnotes keeps short notes in three collections: active, archived and trash.
Notes can be pinned, prioritized, tagged, searched and sorted through a JSON
API (serve) or an interactive prompt (shell).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.configPath != "" {
				return os.Setenv("CONFIG_PATH", flags.configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config.yaml (overrides CONFIG_PATH)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(&flags),
		newShellCmd(&flags),
		newConfigCmd(),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads configuration and builds the logger. verbose forces
// debug level; quietLevel, when set, replaces the configured level
// otherwise.
func loadConfig(flags *globalFlags, quietLevel string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	switch {
	case flags.verbose:
		cfg.Log.Level = "debug"
	case quietLevel != "":
		cfg.Log.Level = quietLevel
	}
	return cfg, app.NewLogger(cfg.Log), nil
}
