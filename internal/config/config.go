// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = "s3sh"
	EnvPrefix      = "S3SH"

	DefaultHomeDirName = ".s3shell"
)

type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=json yaml memory"`
}

type ProviderConfig struct {
	Name     string        `mapstructure:"name" validate:"required"`
	Endpoint string        `mapstructure:"endpoint"`
	UseSSL   bool          `mapstructure:"use_ssl"`
	Region   string        `mapstructure:"region"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type GCPConfig struct {
	Project string `mapstructure:"project"`
}

type TransferConfig struct {
	Segments   int    `mapstructure:"segments" validate:"min=1"`
	BufferSize int    `mapstructure:"buffer_size" validate:"min=1"`
	Progress   string `mapstructure:"progress" validate:"oneof=bar plain none"`
}

type ListingConfig struct {
	PageSize int `mapstructure:"page_size" validate:"min=1"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Config is the decoded, validated view of every setting
type Config struct {
	HomeDir  string         `mapstructure:"home_dir" validate:"required"`
	Store    StoreConfig    `mapstructure:"store"`
	Provider ProviderConfig `mapstructure:"provider"`
	GCP      GCPConfig      `mapstructure:"gcp"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Listing  ListingConfig  `mapstructure:"listing"`
	Log      LogConfig      `mapstructure:"log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Defaults applied before the config file and environment are read
func defaults(home string) map[string]any {
	return map[string]any{
		"home_dir":             filepath.Join(home, DefaultHomeDirName),
		"store.backend":        "json",
		"provider.name":        "aws",
		"provider.endpoint":    "",
		"provider.use_ssl":     true,
		"provider.region":      "us-east-1",
		"provider.timeout":     "0s",
		"gcp.project":          "",
		"transfer.segments":    64,
		"transfer.buffer_size": 1024,
		"transfer.progress":    "bar",
		"listing.page_size":    1000,
		"log.level":            "info",
	}
}

// Expands a leading "~" so paths in the config file can be written relative to the user's home
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
