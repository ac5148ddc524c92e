// File: cmd/s3sh/version_cmd.go
package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=..."
var version = ""

func buildVersion() (string, bool) {
	if version != "" {
		return version, true
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "", false
	}
	return info.Main.Version, true
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the s3sh version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := buildVersion()
			if !ok {
				cmd.Println("No version information available")
				return nil
			}
			cmd.Printf("s3sh %s\n", v)
			return nil
		},
	}
}
