// File: internal/provider/factory/factory.go
package factory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"s3sh/internal/buckets"
	"s3sh/internal/config"
	"s3sh/internal/provider/registry"
	"s3sh/pkg/storage"
)

// Factory turns bucket profiles into live clients of the configured provider
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Returns the provider named by provider.name
func (f *Factory) ActiveProvider() string {
	return strings.ToLower(f.cfg.Provider.Name)
}

// Checks if a specific provider is registered and configured
func (f *Factory) IsConfigured(providerName string) bool {
	registration, exists := registry.GetRegistration(providerName)
	if !exists {
		return false
	}
	return registration.ConfigCheck(f.cfg)
}

// NewClient authenticates with the configured provider using the profile's credentials
func (f *Factory) NewClient(ctx context.Context, profile buckets.Profile) (storage.Client, error) {
	return f.GetStorageProvider(ctx, f.ActiveProvider(), profile)
}

// Initializes and returns the storage client for the specified provider
func (f *Factory) GetStorageProvider(ctx context.Context, providerName string, profile buckets.Profile) (storage.Client, error) {
	normalizedName := strings.ToLower(providerName)
	providerLogger := f.logger.With("provider", normalizedName, "bucket", profile.BucketName)

	registration, exists := registry.GetRegistration(normalizedName)
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s. Supported providers are: %v", providerName, registry.GetSupportedProviders())
	}

	if !registration.ConfigCheck(f.cfg) {
		hint := registration.ConfigHint
		if hint == "" {
			hint = "Use 's3sh config set provider.<key> <value>'"
		}
		return nil, fmt.Errorf("provider '%s' is not configured. %s", normalizedName, hint)
	}

	client, err := registration.Initializer(ctx, f.cfg, profile, providerLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", normalizedName, err)
	}

	providerLogger.Debug("Storage client ready")
	return client, nil
}
