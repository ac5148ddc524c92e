// File: internal/transfer/engine.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"s3sh/internal/errs"
	"s3sh/internal/listing"
	"s3sh/pkg/storage"
)

const (
	DefaultSegments   = 64
	DefaultBufferSize = 1024
)

// Engine performs buffered single-object transfers
type Engine struct {
	lister     *listing.Engine
	segments   int
	bufferSize int
	logger     *slog.Logger
}

func NewEngine(lister *listing.Engine, segments, bufferSize int, logger *slog.Logger) *Engine {
	if segments <= 0 {
		segments = DefaultSegments
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Engine{
		lister:     lister,
		segments:   segments,
		bufferSize: bufferSize,
		logger:     logger.With("component", "TransferEngine"),
	}
}

// UploadResult is the final key and the checksum reported by the provider
type UploadResult struct {
	Key      string
	Checksum string
}

// Download resolves remoteKey to exactly one object and streams it to localPath,
// creating parent directories as needed. A failed copy leaves the partial file in place.
func (e *Engine) Download(ctx context.Context, client storage.Client, bucket, remoteKey, localPath string, reporter ProgressReporter) (Job, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	job := Job{RemoteKey: remoteKey, LocalPath: localPath, SegmentCount: e.segments, Status: Pending}

	entry, err := e.lister.Resolve(ctx, client, bucket, remoteKey)
	if err != nil {
		job.Status = Failed
		return job, err
	}
	job.RemoteKey = entry.Key

	e.logger.Debug("Starting download", "bucket", bucket, "key", entry.Key, "dest", localPath)

	body, size, err := client.GetObject(ctx, bucket, entry.Key)
	if err != nil {
		return e.fail(job, reporter, errs.IO("open remote object "+entry.Key, err))
	}
	defer body.Close()
	if size < 0 {
		size = entry.Size
	}
	job.TotalBytes = size

	if dir := filepath.Dir(localPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return e.fail(job, reporter, errs.IO("create local directory", err))
		}
	}
	out, err := os.Create(localPath)
	if err != nil {
		return e.fail(job, reporter, errs.IO("create "+localPath, err))
	}

	job.Status = InProgress
	reporter.Started(job)

	copyErr := e.copyWithProgress(out, body, &job, reporter)
	if err := out.Close(); copyErr == nil && err != nil {
		copyErr = errs.IO("close "+localPath, err)
	}
	if copyErr != nil {
		return e.fail(job, reporter, copyErr)
	}

	job.Status = Succeeded
	reporter.Completed(job)
	e.logger.Debug("Download complete", "key", entry.Key, "bytes", job.BytesTransferred)
	return job, nil
}

// Copies src to dst through a fixed buffer. A progress event fires whenever the
// running byte count passes the next segment threshold, which then advances by one
// segment width. At most one event fires per buffer.
func (e *Engine) copyWithProgress(dst io.Writer, src io.Reader, job *Job, reporter ProgressReporter) error {
	buf := make([]byte, e.bufferSize)
	segmentSize := float64(job.TotalBytes) / float64(e.segments)
	next := segmentSize
	segment := 0

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return errs.IO("write "+job.LocalPath, err)
			}
			job.BytesTransferred += int64(n)

			if float64(job.BytesTransferred) > next {
				segment = min(segment+1, e.segments)
				reporter.Advanced(Progress{
					Transferred: job.BytesTransferred,
					Total:       job.TotalBytes,
					Segment:     segment,
					Segments:    e.segments,
				})
				next += segmentSize
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return errs.IO("read "+job.RemoteKey, readErr)
		}
	}
}

func (e *Engine) fail(job Job, reporter ProgressReporter, err error) (Job, error) {
	job.Status = Failed
	reporter.Failed(job, err)
	e.logger.Error("Failed to download object", "key", job.RemoteKey, "transferred", job.BytesTransferred, "error", err)
	return job, err
}

// UploadKey normalizes the destination key of an upload. A single leading "/" is
// dropped and a trailing "." stands for the local file's base name.
func UploadKey(remoteKey, localPath string) string {
	key := strings.TrimPrefix(remoteKey, storage.Delimiter)
	if !strings.HasSuffix(key, ".") {
		return key
	}

	key = strings.TrimSuffix(key, ".")
	if key != "" && !strings.HasSuffix(key, storage.Delimiter) {
		key += storage.Delimiter
	}
	return key + filepath.Base(localPath)
}

// Upload puts the whole local file under the normalized key in one request
func (e *Engine) Upload(ctx context.Context, client storage.Client, bucket, localPath, remoteKey string) (UploadResult, error) {
	key := UploadKey(remoteKey, localPath)
	if key == "" {
		return UploadResult{}, fmt.Errorf("%w: empty remote key", errs.ErrInvalidArgument)
	}

	info, err := os.Stat(localPath)
	if os.IsNotExist(err) {
		return UploadResult{}, fmt.Errorf("%w: local file %s", errs.ErrNotFound, localPath)
	}
	if err != nil {
		return UploadResult{}, errs.IO("stat "+localPath, err)
	}
	if info.IsDir() {
		return UploadResult{}, fmt.Errorf("%w: %s is a directory", errs.ErrInvalidArgument, localPath)
	}

	e.logger.Debug("Starting upload", "bucket", bucket, "key", key, "source", localPath, "bytes", info.Size())

	sum, err := client.PutObject(ctx, bucket, key, localPath)
	if err != nil {
		e.logger.Error("Failed to upload object", "key", key, "error", err)
		return UploadResult{}, errs.IO("put "+key, err)
	}
	return UploadResult{Key: key, Checksum: sum}, nil
}

// IsWildcard reports whether a delete argument selects a whole prefix
func IsWildcard(arg string) bool {
	return strings.HasSuffix(arg, "*")
}

// Delete removes one exact key, or every key under the prefix when arg ends in "*".
// deleted is called once per removed key. It returns the number of keys removed.
func (e *Engine) Delete(ctx context.Context, client storage.Client, bucket, arg string, deleted func(key string)) (int, error) {
	if deleted == nil {
		deleted = func(string) {}
	}
	if !IsWildcard(arg) {
		if err := e.DeleteObject(ctx, client, bucket, arg); err != nil {
			return 0, err
		}
		deleted(arg)
		return 1, nil
	}
	return e.DeleteByPrefix(ctx, client, bucket, strings.TrimSuffix(arg, "*"), deleted)
}

func (e *Engine) DeleteObject(ctx context.Context, client storage.Client, bucket, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errs.ErrInvalidArgument)
	}
	e.logger.Debug("Deleting object", "bucket", bucket, "key", key)
	if err := client.DeleteObject(ctx, bucket, key); err != nil {
		e.logger.Error("Failed to delete object", "key", key, "error", err)
		return errs.IO("delete "+key, err)
	}
	return nil
}

// DeleteByPrefix lists every page under prefix before deleting, so removals never
// shift the listing being walked
func (e *Engine) DeleteByPrefix(ctx context.Context, client storage.Client, bucket, prefix string, deleted func(key string)) (int, error) {
	var keys []string
	if _, err := e.lister.ListObjects(ctx, client, bucket, prefix, func(entry storage.ObjectEntry) error {
		keys = append(keys, entry.Key)
		return nil
	}); err != nil {
		return 0, err
	}

	for i, key := range keys {
		if err := e.DeleteObject(ctx, client, bucket, key); err != nil {
			return i, err
		}
		deleted(key)
	}
	return len(keys), nil
}
