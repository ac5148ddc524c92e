// File: internal/service/object_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"s3sh/internal/errs"
	"s3sh/internal/listing"
	"s3sh/internal/session"
	"s3sh/internal/transfer"
	"s3sh/pkg/storage"
)

// ObjectService is the operation boundary for everything that needs the active bucket.
// It resolves paths through the session's navigator, runs the engines against the live
// client and logs failures before handing them back for display.
type ObjectService struct {
	session   *session.Session
	lister    *listing.Engine
	transfers *transfer.Engine
	logger    *slog.Logger
}

func NewObjectService(sess *session.Session, lister *listing.Engine, transfers *transfer.Engine, logger *slog.Logger) *ObjectService {
	return &ObjectService{
		session:   sess,
		lister:    lister,
		transfers: transfers,
		logger:    logger.With("service", "ObjectService"),
	}
}

// DownloadResult is the finished job plus where the file landed
type DownloadResult struct {
	Job transfer.Job
	// Set when the local path was derived from the working directory
	DefaultedLocalPath bool
}

func (s *ObjectService) ListPaths(ctx context.Context, explicitPath string) ([]string, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return nil, err
	}
	prefix := s.session.ResolveEffectivePath(explicitPath)
	s.logger.Debug("Starting ListPaths operation", "bucket", bucket, "prefix", prefix)

	paths, err := s.lister.ListDirectChildren(ctx, client, bucket, prefix)
	if err != nil {
		s.logger.Error("Failed to list paths", "bucket", bucket, "prefix", prefix, "error", err)
		return nil, err
	}
	return paths, nil
}

func (s *ObjectService) ListObjects(ctx context.Context, explicitPath string, emit func(storage.ObjectEntry) error) (int, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return 0, err
	}
	prefix := s.session.ResolveEffectivePath(explicitPath)
	s.logger.Debug("Starting ListObjects operation", "bucket", bucket, "prefix", prefix)

	total, err := s.lister.ListObjects(ctx, client, bucket, prefix, emit)
	if err != nil {
		s.logger.Error("Failed to list objects", "bucket", bucket, "prefix", prefix, "listed", total, "error", err)
		return total, err
	}
	return total, nil
}

func (s *ObjectService) Find(ctx context.Context, pattern, explicitPath string, emit func(storage.ObjectEntry, int) error) (listing.SearchResult, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return listing.SearchResult{}, err
	}
	prefix := s.session.ResolveEffectivePath(explicitPath)
	s.logger.Debug("Starting Find operation", "bucket", bucket, "prefix", prefix, "pattern", pattern)

	res, err := s.lister.Search(ctx, client, bucket, prefix, pattern, emit)
	if err != nil && !errors.Is(err, errs.ErrInvalidPattern) {
		s.logger.Error("Failed to search objects", "bucket", bucket, "prefix", prefix, "error", err)
	}
	return res, err
}

// Download fetches remotePath into localPath. An empty localPath means the remote
// base name inside the process working directory.
func (s *ObjectService) Download(ctx context.Context, remotePath, localPath string, reporter transfer.ProgressReporter) (DownloadResult, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return DownloadResult{}, err
	}

	var res DownloadResult
	if localPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return DownloadResult{}, errs.IO("resolve working directory", err)
		}
		localPath = filepath.Join(cwd, path.Base(remotePath))
		res.DefaultedLocalPath = true
	}

	s.logger.Debug("Starting Download operation", "bucket", bucket, "key", remotePath, "dest", localPath)
	res.Job, err = s.transfers.Download(ctx, client, bucket, remotePath, localPath, reporter)
	return res, err
}

func (s *ObjectService) Upload(ctx context.Context, localPath, remotePath string) (transfer.UploadResult, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return transfer.UploadResult{}, err
	}
	s.logger.Debug("Starting Upload operation", "bucket", bucket, "source", localPath, "key", remotePath)
	return s.transfers.Upload(ctx, client, bucket, localPath, remotePath)
}

// Delete removes an exact key, or everything under a prefix ending in "*".
// deleted receives each removed key qualified with the bucket name.
func (s *ObjectService) Delete(ctx context.Context, target string, deleted func(bucket, key string)) (int, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Starting Delete operation", "bucket", bucket, "target", target)

	n, err := s.transfers.Delete(ctx, client, bucket, target, func(key string) {
		if deleted != nil {
			deleted(bucket, key)
		}
	})
	if err != nil {
		s.logger.Error("Failed to delete objects", "bucket", bucket, "target", target, "deleted", n, "error", err)
	}
	return n, err
}

// Usage reports the bucket's stored bytes when the provider can tell
func (s *ObjectService) Usage(ctx context.Context) (int64, error) {
	client, bucket, err := s.session.Active()
	if err != nil {
		return 0, err
	}

	reporter, ok := client.(storage.UsageReporter)
	if !ok {
		return -1, fmt.Errorf("provider %s does not report bucket usage", client.ProviderName())
	}

	s.logger.Debug("Starting Usage operation", "bucket", bucket)
	usage, err := reporter.BucketUsage(ctx, bucket)
	if err != nil {
		s.logger.Error("Failed to fetch bucket usage", "bucket", bucket, "error", err)
		return -1, err
	}
	return usage, nil
}
