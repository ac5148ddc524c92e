// File: pkg/storage/aws/aws.go
package aws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"s3sh/internal/buckets"
	"s3sh/internal/config"
	"s3sh/internal/provider/registry"
	"s3sh/pkg/common"
	"s3sh/pkg/storage"
)

func init() {
	registry.RegisterProvider(common.AWS.String(), registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "Use 's3sh config set provider.region <region>'",
	})
}

// A region is required, either per profile or from provider.region
func isConfigured(cfg *config.Config) bool {
	return cfg != nil && cfg.Provider.Region != ""
}

func initialize(ctx context.Context, cfg *config.Config, profile buckets.Profile, logger *slog.Logger) (storage.Client, error) {
	region := profile.Region
	if region == "" {
		region = cfg.Provider.Region
	}
	return NewAWSStorage(ctx, Options{
		Region:    region,
		AccessKey: profile.AccessKey,
		SecretKey: profile.SecretKey,
		Endpoint:  cfg.Provider.Endpoint,
		UseSSL:    cfg.Provider.UseSSL,
		Timeout:   cfg.Provider.Timeout,
	}, logger)
}

type Options struct {
	Region    string
	AccessKey string
	SecretKey string
	// S3-compatible endpoint; empty means AWS itself
	Endpoint string
	UseSSL   bool
	// Response header timeout for every request, zero for none
	Timeout time.Duration
}

type AWSStorage struct {
	client *s3.Client
	region string
	logger *slog.Logger
}

var _ storage.Client = (*AWSStorage)(nil)

func NewAWSStorage(ctx context.Context, opts Options, logger *slog.Logger) (*AWSStorage, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}

	// Without keys the default credential chain applies (env, shared config, instance role)
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	if opts.Timeout > 0 {
		httpClient := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
			tr.ResponseHeaderTimeout = opts.Timeout
		})
		loaders = append(loaders, awsconfig.WithHTTPClient(httpClient))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(endpointURL(opts.Endpoint, opts.UseSSL))
			o.UsePathStyle = true
		}
	})

	return &AWSStorage{
		client: client,
		region: opts.Region,
		logger: logger,
	}, nil
}

// Adds a scheme to bare host:port endpoints
func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

// The SDK client holds no connections that need releasing
func (s *AWSStorage) Close() error {
	return nil
}
