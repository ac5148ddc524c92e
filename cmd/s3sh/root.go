// File: cmd/s3sh/root.go
package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"s3sh/internal/flags"
	"s3sh/pkg/formatter"
)

type launchFlags struct {
	configPath string
	debug      bool
}

// newLauncherCmd parses the process arguments. With no command it starts the interactive
// shell, otherwise the remaining arguments run as a single shell command.
func newLauncherCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmdFlags := launchFlags{}

	cmd := &cobra.Command{
		Use:   "s3sh [command] [args...]",
		Short: "s3sh is an interactive shell for object storage buckets.",
		Long: `An interactive shell for browsing and transferring objects in S3, GCS and
S3-compatible buckets. Register buckets under short aliases, select one with
'cb', then navigate it like a filesystem with cd, ls, find, get, put and rm.

Run without arguments to start the shell, or pass a single shell command
(e.g. 's3sh lb -l') to run it and exit.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), appOptions{
				ConfigPath: cmdFlags.configPath,
				Debug:      cmdFlags.debug,
				In:         in,
				Out:        out,
				ErrOut:     errOut,
			})
			if err != nil {
				return err
			}
			defer app.Close()

			if len(args) == 0 {
				return newShell(app).Run(cmd.Context())
			}
			return app.execute(cmd.Context(), args)
		},
	}
	// Everything after the first positional argument belongs to the shell command
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&cmdFlags.configPath, flags.Config, "", "Path to an alternative config file")
	cmd.Flags().BoolVarP(&cmdFlags.debug, flags.Debug, flags.DebugShort, false, "Enable debug logging")

	return cmd
}

// newShellCmd builds the command tree for one shell line
func newShellCmd(app *appContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "s3sh",
		Short:         "s3sh shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newBucketCmds(app)...)
	cmd.AddCommand(newNavigationCmds(app)...)
	cmd.AddCommand(newObjectCmds(app)...)
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(app))
	return cmd
}

func Execute() int {
	cmd := newLauncherCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		cmd.PrintErrln(formatter.Error(err.Error()))
		return 1
	}
	return 0
}
