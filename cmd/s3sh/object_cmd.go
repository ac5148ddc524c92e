// File: cmd/s3sh/object_cmd.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"s3sh/internal/errs"
	"s3sh/internal/flags"
	"s3sh/internal/transfer"
	"s3sh/internal/ui/progress"
	"s3sh/pkg/storage"
)

type objectFlags struct {
	force bool
}

func newObjectCmds(app *appContainer) []*cobra.Command {
	cmdFlags := objectFlags{}

	listCmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List objects under a path",
		Long:  `Lists every object under path, or under the present path when none is given, following pagination to the end.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := app.ObjectService.ListObjects(cmd.Context(), optionalArg(args), func(e storage.ObjectEntry) error {
				cmd.Println(app.Formatter.FormatObject(e))
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Printf("Items found: %d\n", total)
			return nil
		},
	}

	findCmd := &cobra.Command{
		Use:     "find [regex]",
		Aliases: []string{"f"},
		Short:   "Find objects whose key matches a regular expression",
		Long: `Searches every key under the present path for matches of regex. A key that
matches several times counts once per match. Quote a regex that contains spaces,
as in find 'annual report'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.ObjectService.Find(cmd.Context(), args[0], "", func(e storage.ObjectEntry, matches int) error {
				cmd.Println(app.Formatter.FormatMatch(e, matches))
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Printf("Listed %d of %d files\n", res.Matches, res.Total)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [remote-path] [local-path]",
		Short: "Download an object",
		Long: `Downloads the single object at remote-path. Without local-path the object is
saved in the current working directory under its base name. Paths containing
spaces must be quoted: get "docs/my notes.txt" notes.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := args[0]
			local := ""
			if len(args) == 2 {
				local = args[1]
			} else if cwd, err := os.Getwd(); err == nil {
				cmd.Printf("going to use the current working directory of: %s\n", cwd)
			}

			reporter := progress.New(app.Config.Transfer.Progress, cmd.OutOrStdout())
			if _, err := app.ObjectService.Download(cmd.Context(), remote, local, reporter); err != nil {
				if errs.IsIO(err) {
					return fmt.Errorf("failed to get the remote file %s with error: %w", remote, err)
				}
				return err
			}
			cmd.Printf("Successfully downloaded remote file %s\n", remote)
			return nil
		},
	}

	putCmd := &cobra.Command{
		Use:   "put [local-path] [remote-path]",
		Short: "Upload a local file",
		Long: `Uploads local-path as a single object. A remote-path ending in "." uses the
local file's base name, so 'put report.csv reports/.' writes reports/report.csv.
Paths containing spaces must be quoted: put "my notes.txt" docs/.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, remote := args[0], args[1]
			if strings.HasPrefix(remote, storage.Delimiter) {
				cmd.Println(leadingSlashWarning)
			}

			res, err := app.ObjectService.Upload(cmd.Context(), local, remote)
			if err != nil {
				return err
			}
			cmd.Printf("md5: %s\n", res.Checksum)
			cmd.Printf("Successfully uploaded %s\n", res.Key)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "rm [key | prefix*]",
		Short: "Delete an object, or every object under a prefix",
		Long: `Deletes the object at key. An argument ending in "*" deletes every object under
that prefix after asking for confirmation; use --force to skip the prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			_, bucket, err := app.Session.Active()
			if err != nil {
				return err
			}

			wildcard := transfer.IsWildcard(target)
			if wildcard && !cmdFlags.force {
				msg := fmt.Sprintf("This will delete every object under '%s' in bucket %s.", strings.TrimSuffix(target, "*"), bucket)
				confirmed, err := app.Prompter.Confirm(msg, target)
				if err != nil {
					return err
				}
				if !confirmed {
					cmd.Println("Deletion cancelled.")
					return nil
				}
			}

			n, err := app.ObjectService.Delete(cmd.Context(), target, func(bucket, key string) {
				if wildcard {
					cmd.Printf("Deleted %s://%s\n", bucket, key)
				} else {
					cmd.Printf("deleted %s\n", key)
				}
			})
			if err != nil {
				return err
			}
			if wildcard {
				cmd.Printf("deleted %d objects\n", n)
			}
			return nil
		},
	}
	removeCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Delete without confirmation")

	usageCmd := &cobra.Command{
		Use:   "du",
		Short: "Show the total size of the active bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bytes, err := app.ObjectService.Usage(cmd.Context())
			if err != nil {
				return err
			}
			_, bucket, err := app.Session.Active()
			if err != nil {
				return err
			}
			cmd.Printf("%s: %s\n", bucket, storage.FormatBytes(bytes))
			return nil
		},
	}

	return []*cobra.Command{listCmd, findCmd, getCmd, putCmd, removeCmd, usageCmd}
}

