// File: cmd/s3sh/navigation_cmd.go
package main

import (
	"github.com/spf13/cobra"

	"s3sh/internal/session"
)

const leadingSlashWarning = "removing leading '/' because it is unnecessary and is interpreted as a literal path"

func newNavigationCmds(app *appContainer) []*cobra.Command {
	changeBucketCmd := &cobra.Command{
		Use:     "cb [alias]",
		Aliases: []string{"change-bucket"},
		Short:   "Select the active bucket",
		Long:    `Connects to the bucket registered under alias and makes it the active bucket. The present path resets to the bucket root.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			outcome, err := app.Session.SelectBucket(cmd.Context(), alias)
			if err != nil {
				return err
			}
			if outcome == session.NotFound {
				cmd.Printf("No bucket with alias %s found\n", alias)
				return nil
			}
			cmd.Printf("Current bucket is now %s\n", alias)
			return nil
		},
	}

	changeDirCmd := &cobra.Command{
		Use:   "cd [path]",
		Short: "Change the present path inside the active bucket",
		Long:  `Changes the present path. With no path, or "/", returns to the bucket root.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if stripped := app.Session.ChangeDirectory(path); stripped && path != session.Root {
				cmd.Println(leadingSlashWarning)
			}
			cmd.Println(app.Session.PresentWorkingDirectoryDisplay())
			return nil
		},
	}

	pwdCmd := &cobra.Command{
		Use:   "pwd",
		Short: "Print the active bucket and present path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(app.Session.PresentWorkingDirectoryDisplay())
			return nil
		},
	}

	listPathsCmd := &cobra.Command{
		Use:     "lp [path]",
		Aliases: []string{"list-paths"},
		Short:   "List the directories directly under a path",
		Long:    `Lists the common prefixes one level below path, or below the present path when none is given.`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.ObjectService.ListPaths(cmd.Context(), optionalArg(args))
			if err != nil {
				return err
			}
			for _, p := range paths {
				cmd.Println(p)
			}
			cmd.Printf("found %d prefixes\n", len(paths))
			return nil
		},
	}

	return []*cobra.Command{changeBucketCmd, changeDirCmd, pwdCmd, listPathsCmd}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
