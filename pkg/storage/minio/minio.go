// File: pkg/storage/minio/minio.go
package minio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"s3sh/internal/buckets"
	"s3sh/internal/config"
	"s3sh/internal/provider/registry"
	"s3sh/pkg/common"
	"s3sh/pkg/storage"
)

func init() {
	registry.RegisterProvider(common.MinIO.String(), registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "Use 's3sh config set provider.endpoint <host:port>'",
	})
}

// MinIO has no well-known public endpoint, so one must be configured
func isConfigured(cfg *config.Config) bool {
	return cfg != nil && cfg.Provider.Endpoint != ""
}

func initialize(_ context.Context, cfg *config.Config, profile buckets.Profile, logger *slog.Logger) (storage.Client, error) {
	region := profile.Region
	if region == "" {
		region = cfg.Provider.Region
	}
	return NewMinioStorage(Options{
		Endpoint:  cfg.Provider.Endpoint,
		AccessKey: profile.AccessKey,
		SecretKey: profile.SecretKey,
		Region:    region,
		UseSSL:    cfg.Provider.UseSSL,
		Timeout:   cfg.Provider.Timeout,
	}, logger)
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Timeout   time.Duration
}

// The subset of *minio.Client used here
type objectAPI interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioStorage struct {
	client objectAPI
	logger *slog.Logger
}

var _ storage.Client = (*MinioStorage)(nil)

func NewMinioStorage(opts Options, logger *slog.Logger) (*MinioStorage, error) {
	endpoint := opts.Endpoint
	secure := opts.UseSSL
	// Accept endpoints written as URLs; minio-go wants host:port
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint, secure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, secure = rest, false
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	transport, err := minio.DefaultTransport(secure)
	if err != nil {
		return nil, fmt.Errorf("failed to build MinIO transport: %w", err)
	}
	if opts.Timeout > 0 {
		transport.ResponseHeaderTimeout = opts.Timeout
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:    secure,
		Region:    opts.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return newWithAPI(client, logger), nil
}

func newWithAPI(api objectAPI, logger *slog.Logger) *MinioStorage {
	return &MinioStorage{client: api, logger: logger}
}

func (m *MinioStorage) ProviderName() common.Provider {
	return common.MinIO
}

// minio-go clients hold no resources beyond pooled HTTP connections
func (m *MinioStorage) Close() error {
	return nil
}
