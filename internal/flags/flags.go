// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Long listing flags add credentials to the bucket table
	Long      = "long"
	LongShort = "l"

	// Alias flags restrict an export to a comma-separated list of bucket aliases
	Aliases      = "aliases"
	AliasesShort = "a"

	// Description and region are the optional fields of a bucket profile
	Description = "description"
	Region      = "region"
	RegionShort = "r"

	// Force flags are used to bypass interactive confirmation prompts for destructive operations
	Force      = "force"
	ForceShort = "f"

	// Debug flags are used to enable verbose logging
	Debug      = "debug"
	DebugShort = "d"

	// Config points at an alternative config file
	Config = "config"
)
