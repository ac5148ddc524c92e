// File: cmd/s3sh/history_cmd.go
package main

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *appContainer) *cobra.Command {
	return &cobra.Command{
		Use:     "hist",
		Aliases: []string{"history"},
		Short:   "Show the command history",
		Long:    `Lists every recorded command with its index. Run '! <index>' to replay one.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Print(app.Formatter.FormatHistory(app.History.Entries()))
			return nil
		},
	}
}
