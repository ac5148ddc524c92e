// File: cmd/s3sh/bucket_cmd.go
package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"s3sh/internal/buckets"
	"s3sh/internal/errs"
	"s3sh/internal/flags"
	"s3sh/pkg/formatter"
	"s3sh/pkg/storage"
)

type bucketFlags struct {
	long        bool
	aliases     []string
	description string
	region      string
}

func newBucketCmds(app *appContainer) []*cobra.Command {
	cmdFlags := bucketFlags{}

	listCmd := &cobra.Command{
		Use:     "lb",
		Aliases: []string{"list-buckets"},
		Short:   "List registered buckets",
		Long:    `Lists every registered bucket alias. Use --long to include the access and secret keys.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := slices.Collect(app.Registry.List())
			if len(profiles) == 0 {
				cmd.Println("No buckets registered. Use 'add <alias> <bucket-name> [access-key] [secret-key]'.")
				return nil
			}
			cmd.Println(app.Formatter.FormatBucketList(profiles, cmdFlags.long))
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&cmdFlags.long, flags.Long, flags.LongShort, false, "Include access and secret keys")

	addCmd := &cobra.Command{
		Use:     "add [alias] [bucket-name] [access-key] [secret-key]",
		Aliases: []string{"add-bucket"},
		Short:   "Register a bucket under an alias",
		Long: `Registers a bucket under a short alias. Adding an alias that already exists leaves
the existing registration untouched; use 'import' to overwrite.`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := buckets.Profile{
				Alias:       args[0],
				BucketName:  args[1],
				Description: cmdFlags.description,
				Region:      cmdFlags.region,
			}
			if len(args) > 2 {
				profile.AccessKey = args[2]
			}
			if len(args) > 3 {
				profile.SecretKey = args[3]
			}

			outcome, err := app.Registry.Add(cmd.Context(), profile)
			if err != nil {
				return err
			}
			if outcome == buckets.AlreadyExists {
				cmd.Printf("A bucket with the alias %s already exists\n", profile.Alias)
				return nil
			}
			cmd.Printf("Added bucket %s with an alias of %s\n", profile.BucketName, profile.Alias)
			return nil
		},
	}
	addCmd.Flags().StringVar(&cmdFlags.description, flags.Description, "", "Free-form description of the bucket")
	addCmd.Flags().StringVarP(&cmdFlags.region, flags.Region, flags.RegionShort, "", "Region the bucket lives in")

	removeCmd := &cobra.Command{
		Use:     "rmb [alias]",
		Aliases: []string{"remove-bucket"},
		Short:   "Unregister a bucket alias",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			outcome, err := app.Registry.Remove(cmd.Context(), alias)
			if err != nil {
				return err
			}
			if outcome == buckets.NotFound {
				cmd.Printf("no bucket named %s found\n", alias)
				return nil
			}
			cmd.Printf("bucket named %s has been deleted\n", alias)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import bucket registrations from a file",
		Long: `Imports bucket registrations from a CSV, JSON or YAML file, chosen by extension.
CSV rows are: alias,bucketName,accessKey,secretKey,description,region.
Imported aliases overwrite existing registrations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			n, err := app.Registry.ImportFile(cmd.Context(), path)
			switch {
			case errors.Is(err, errs.ErrNotFound):
				return fmt.Errorf("cannot find file named %s", path)
			case err != nil:
				return fmt.Errorf("unable to process the bucket information in %s: %w", path, err)
			}
			cmd.Printf("imported %d buckets from %s\n", n, path)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export bucket registrations to a file",
		Long: `Writes bucket registrations to a CSV, JSON or YAML file, chosen by extension.
Use --aliases to export only some of them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			n, err := app.Registry.ExportFile(path, cmdFlags.aliases)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %d to file named %s\n", n, path)
			return nil
		},
	}
	exportCmd.Flags().StringSliceVarP(&cmdFlags.aliases, flags.Aliases, flags.AliasesShort, nil, "Aliases to export (comma-separated). Defaults to all.")

	infoCmd := &cobra.Command{
		Use:   "info [alias]",
		Short: "Show a bucket registration",
		Long:  `Shows the registration for alias, or for the active bucket when no alias is given. The active bucket's usage is included when the provider reports it.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, isActive := app.Session.ActiveProfile()

			var profile buckets.Profile
			if len(args) == 0 {
				if !isActive {
					return errs.ErrNoActiveBucket
				}
				profile = active
			} else {
				p, ok := app.Registry.Get(args[0])
				if !ok {
					return fmt.Errorf("%w: no bucket with alias %s", errs.ErrNotFound, args[0])
				}
				profile = p
			}

			provider := app.ProviderFactory.ActiveProvider()
			status := formatter.BucketStatus{
				Provider:           provider,
				ProviderConfigured: app.ProviderFactory.IsConfigured(provider),
				Active:             isActive && strings.EqualFold(active.Alias, profile.Alias),
			}
			if status.Active {
				if bytes, err := app.ObjectService.Usage(cmd.Context()); err == nil {
					status.Usage = storage.FormatBytes(bytes)
				}
			}
			cmd.Println(app.Formatter.FormatBucketDetails(profile, status))
			return nil
		},
	}

	return []*cobra.Command{listCmd, addCmd, removeCmd, importCmd, exportCmd, infoCmd}
}
