// File: pkg/storage/aws/objects.go
package aws

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"s3sh/pkg/storage"
)

func (s *AWSStorage) ListObjects(ctx context.Context, bucketName string, opts storage.ListOptions) (storage.ListPage, error) {
	s.logger.Debug("Starting AWS ListObjects operation", "bucket", bucketName, "prefix", opts.Prefix, "delimiter", opts.Delimiter)

	out, err := s.client.ListObjectsV2(ctx, listInput(bucketName, opts))
	if err != nil {
		return storage.ListPage{}, fmt.Errorf("error listing objects: %w", err)
	}
	return mapListOutput(out), nil
}

func listInput(bucketName string, opts storage.ListOptions) *s3.ListObjectsV2Input {
	in := &s3.ListObjectsV2Input{
		Bucket: awssdk.String(bucketName),
		Prefix: awssdk.String(opts.Prefix),
	}
	if opts.Delimiter != "" {
		in.Delimiter = awssdk.String(opts.Delimiter)
	}
	if opts.Cursor != "" {
		in.ContinuationToken = awssdk.String(opts.Cursor)
	}
	if opts.MaxKeys > 0 {
		in.MaxKeys = awssdk.Int32(int32(min(opts.MaxKeys, storage.DefaultPageSize)))
	}
	return in
}

func mapListOutput(out *s3.ListObjectsV2Output) storage.ListPage {
	page := storage.ListPage{
		HasMore:    awssdk.ToBool(out.IsTruncated),
		NextCursor: awssdk.ToString(out.NextContinuationToken),
	}
	for _, obj := range out.Contents {
		page.Entries = append(page.Entries, mapObject(obj))
	}
	for _, cp := range out.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, awssdk.ToString(cp.Prefix))
	}
	return page
}

func mapObject(obj types.Object) storage.ObjectEntry {
	return storage.ObjectEntry{
		Key:          awssdk.ToString(obj.Key),
		Size:         awssdk.ToInt64(obj.Size),
		LastModified: awssdk.ToTime(obj.LastModified),
	}
}

func (s *AWSStorage) GetObject(ctx context.Context, bucketName, key string) (io.ReadCloser, int64, error) {
	s.logger.Debug("Starting AWS GetObject operation", "bucket", bucketName, "object", key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(bucketName),
		Key:    awssdk.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error opening object %s: %w", key, err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

// PutObject sends the file in one request with its Content-MD5 so S3 verifies the payload
func (s *AWSStorage) PutObject(ctx context.Context, bucketName, key, localPath string) (string, error) {
	s.logger.Debug("Starting AWS PutObject operation", "bucket", bucketName, "object", key, "source", localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer f.Close()

	sum, size, err := contentMD5(f)
	if err != nil {
		return "", fmt.Errorf("error hashing %s: %w", localPath, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(bucketName),
		Key:           awssdk.String(key),
		Body:          f,
		ContentLength: awssdk.Int64(size),
		ContentMD5:    awssdk.String(sum),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	return sum, nil
}

// Hashes r from the start and rewinds it
func contentMD5(r io.ReadSeeker) (string, int64, error) {
	h := md5.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), n, nil
}

func (s *AWSStorage) DeleteObject(ctx context.Context, bucketName, key string) error {
	s.logger.Debug("Starting AWS DeleteObject operation", "bucket", bucketName, "object", key)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(bucketName),
		Key:    awssdk.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting object %s: %w", key, err)
	}
	return nil
}
