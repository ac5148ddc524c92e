// File: pkg/storage/gcp/objects.go
package gcp

import (
	"context"
	"fmt"
	"io"
	"os"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"s3sh/pkg/storage"
)

func (g *GCPStorage) ListObjects(ctx context.Context, bucketName string, opts storage.ListOptions) (storage.ListPage, error) {
	g.logger.Debug("Starting GCP ListObjects operation", "bucket", bucketName, "prefix", opts.Prefix, "delimiter", opts.Delimiter)

	query := &gcpstorage.Query{
		Prefix:    opts.Prefix,
		Delimiter: opts.Delimiter,
	}

	pageSize := opts.MaxKeys
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}

	it := g.client.Bucket(bucketName).Objects(ctx, query)
	pager := iterator.NewPager(it, pageSize, opts.Cursor)

	var attrs []*gcpstorage.ObjectAttrs
	nextToken, err := pager.NextPage(&attrs)
	if err != nil {
		return storage.ListPage{}, fmt.Errorf("error iterating objects: %w", err)
	}

	page := storage.ListPage{
		NextCursor: nextToken,
		HasMore:    nextToken != "",
	}
	for _, a := range attrs {
		// If attrs.Prefix is set, it's a common prefix (directory)
		if a.Prefix != "" {
			page.CommonPrefixes = append(page.CommonPrefixes, a.Prefix)
			continue
		}
		page.Entries = append(page.Entries, mapObjectEntry(a))
	}
	return page, nil
}

func (g *GCPStorage) GetObject(ctx context.Context, bucketName, key string) (io.ReadCloser, int64, error) {
	g.logger.Debug("Starting GCP GetObject operation", "bucket", bucketName, "object", key)

	reader, err := g.client.Bucket(bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error opening object %s: %w", key, err)
	}
	return reader, reader.Attrs.Size, nil
}

func (g *GCPStorage) PutObject(ctx context.Context, bucketName, key, localPath string) (string, error) {
	g.logger.Debug("Starting GCP PutObject operation", "bucket", bucketName, "object", key, "source", localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer f.Close()

	w := g.client.Bucket(bucketName).Object(key).NewWriter(ctx)
	// Single-shot upload of the whole file
	w.ChunkSize = 0
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizing upload of %s: %w", key, err)
	}

	return objectChecksum(w.Attrs()), nil
}

func (g *GCPStorage) DeleteObject(ctx context.Context, bucketName, key string) error {
	g.logger.Debug("Starting GCP DeleteObject operation", "bucket", bucketName, "object", key)

	if err := g.client.Bucket(bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("error deleting object %s: %w", key, err)
	}
	return nil
}
