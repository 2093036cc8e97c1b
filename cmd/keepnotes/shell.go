package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/heartmarshall/keepnotes/internal/service/tag"
	"github.com/heartmarshall/keepnotes/internal/shell"
)

func newShellCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive prompt over an in-memory note store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Store logs would interleave with the prompt; keep only warnings.
			cfg, logger, err := loadConfig(flags, "warn")
			if err != nil {
				return err
			}

			rl, err := shell.NewReadline(cfg.Shell)
			if err != nil {
				return err
			}
			defer rl.Close()

			notes := note.NewStore(logger)
			defer notes.Close()
			tags := tag.NewRegistry(logger, cfg.Tags.Defaults, nil)
			defer tags.Close()

			return shell.New(notes, tags, rl.Stdout(), logger).Run(cmd.Context(), rl)
		},
	}
}
