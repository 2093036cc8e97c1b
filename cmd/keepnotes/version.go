package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/keepnotes/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of keepnotes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			i := app.Info()
			fmt.Fprintf(cmd.OutOrStdout(), "keepnotes %s (commit %s, built %s, %s)\n",
				i.Version, i.Commit, i.BuildTime, i.GoVersion)
		},
	}
}
