// File: pkg/storage/gcp/client.go
package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"s3sh/internal/buckets"
	"s3sh/internal/config"
	"s3sh/internal/provider/registry"
	"s3sh/pkg/common"
	"s3sh/pkg/storage"
)

func init() {
	registry.RegisterProvider(common.GCP.String(), registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// GCS authenticates per profile, falling back to application default credentials,
// so there is nothing mandatory to configure
func isConfigured(cfg *config.Config) bool {
	return cfg != nil
}

func initialize(ctx context.Context, cfg *config.Config, profile buckets.Profile, logger *slog.Logger) (storage.Client, error) {
	return NewGCPStorage(ctx, cfg.GCP.Project, clientOptions(cfg, profile), logger)
}

// Maps a bucket profile onto GCS client options. The secret key holds either an
// inline service account JSON document or a path to one; empty means ADC.
func clientOptions(cfg *config.Config, profile buckets.Profile) []option.ClientOption {
	var opts []option.ClientOption

	secret := strings.TrimSpace(profile.SecretKey)
	switch {
	case strings.HasPrefix(secret, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(secret)))
	case secret != "":
		opts = append(opts, option.WithCredentialsFile(secret))
	case cfg.Provider.Endpoint != "":
		// Emulators such as fake-gcs-server accept unauthenticated requests
		opts = append(opts, option.WithoutAuthentication())
	}

	if cfg.Provider.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Provider.Endpoint))
	}
	return opts
}

type GCPStorage struct {
	client    *gcpstorage.Client
	projectID string
	logger    *slog.Logger
}

var (
	_ storage.Client        = (*GCPStorage)(nil)
	_ storage.UsageReporter = (*GCPStorage)(nil)
)

func NewGCPStorage(ctx context.Context, projectID string, opts []option.ClientOption, logger *slog.Logger) (*GCPStorage, error) {
	client, err := gcpstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	return &GCPStorage{
		client:    client,
		projectID: projectID,
		logger:    logger,
	}, nil
}

func (g *GCPStorage) ProviderName() common.Provider {
	return common.GCP
}

func (g *GCPStorage) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
