// File: pkg/storage/minio/objects.go
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"s3sh/pkg/storage"
)

// ListObjects returns one page. MinIO lists with marker semantics, so the cursor is
// the last key of the previous page and is passed back as StartAfter.
func (m *MinioStorage) ListObjects(ctx context.Context, bucketName string, opts storage.ListOptions) (storage.ListPage, error) {
	m.logger.Debug("Starting MinIO ListObjects operation", "bucket", bucketName, "prefix", opts.Prefix, "delimiter", opts.Delimiter)

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = storage.DefaultPageSize
	}

	// minio-go only supports "/" as a delimiter; non-recursive listings roll keys up at "/"
	minioOpts := minio.ListObjectsOptions{
		Prefix:     opts.Prefix,
		Recursive:  opts.Delimiter == "",
		StartAfter: opts.Cursor,
		MaxKeys:    maxKeys,
	}

	// Cancelling stops the listing goroutine once the page is full
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var page storage.ListPage
	count := 0
	lastKey := ""
	for obj := range m.client.ListObjects(listCtx, bucketName, minioOpts) {
		if obj.Err != nil {
			return storage.ListPage{}, fmt.Errorf("error listing objects: %w", obj.Err)
		}
		if count == maxKeys {
			page.HasMore = true
			page.NextCursor = lastKey
			break
		}

		if isCommonPrefix(obj) {
			page.CommonPrefixes = append(page.CommonPrefixes, obj.Key)
		} else {
			page.Entries = append(page.Entries, mapObjectInfo(obj))
		}
		count++
		lastKey = obj.Key
	}
	return page, nil
}

// Rolled-up prefixes come back as bare ObjectInfo values with no ETag or timestamp
func isCommonPrefix(obj minio.ObjectInfo) bool {
	return obj.ETag == "" && obj.LastModified.IsZero() && len(obj.Key) > 0 && obj.Key[len(obj.Key)-1] == '/'
}

func mapObjectInfo(obj minio.ObjectInfo) storage.ObjectEntry {
	return storage.ObjectEntry{
		Key:          obj.Key,
		Size:         obj.Size,
		LastModified: obj.LastModified,
	}
}

func (m *MinioStorage) GetObject(ctx context.Context, bucketName, key string) (io.ReadCloser, int64, error) {
	m.logger.Debug("Starting MinIO GetObject operation", "bucket", bucketName, "object", key)

	obj, err := m.client.GetObject(ctx, bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("error opening object %s: %w", key, err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, fmt.Errorf("error reading object %s: %w", key, err)
	}
	return obj, info.Size, nil
}

// PutObject returns the ETag, which is the hex MD5 of the content for single-part uploads
func (m *MinioStorage) PutObject(ctx context.Context, bucketName, key, localPath string) (string, error) {
	m.logger.Debug("Starting MinIO PutObject operation", "bucket", bucketName, "object", key, "source", localPath)

	info, err := m.client.FPutObject(ctx, bucketName, key, localPath, minio.PutObjectOptions{SendContentMd5: true})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	return info.ETag, nil
}

func (m *MinioStorage) DeleteObject(ctx context.Context, bucketName, key string) error {
	m.logger.Debug("Starting MinIO DeleteObject operation", "bucket", bucketName, "object", key)

	if err := m.client.RemoveObject(ctx, bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("error deleting object %s: %w", key, err)
	}
	return nil
}
