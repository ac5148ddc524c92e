// File: pkg/storage/storage.go
package storage

import (
	"context"
	"io"

	"s3sh/pkg/common"
)

// Delimiter is the separator used to emulate directories over the flat key space
const Delimiter = "/"

// DefaultPageSize is the number of keys most providers return per listing page
const DefaultPageSize = 1000

// Client is a live, authenticated handle to a storage provider.
// A Client is owned by a single session and must not be reused after Close
type Client interface {
	ProviderName() common.Provider

	// ListObjects returns one page of entries under opts.Prefix. When opts.Delimiter
	// is set, keys that contain the delimiter after the prefix are rolled up into CommonPrefixes
	ListObjects(ctx context.Context, bucket string, opts ListOptions) (ListPage, error)

	// GetObject opens a read stream for key. The caller closes the returned reader
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)

	// PutObject uploads the whole local file in a single request and returns the content checksum
	PutObject(ctx context.Context, bucket, key, localPath string) (string, error)

	DeleteObject(ctx context.Context, bucket, key string) error

	Close() error
}

// UsageReporter is implemented by providers that can report total stored bytes for a bucket
type UsageReporter interface {
	BucketUsage(ctx context.Context, bucket string) (int64, error)
}

// PageSizeTerminated is implemented by providers whose listings cannot signal truncation.
// Callers treat a page shorter than FullPageSize as the last one
type PageSizeTerminated interface {
	FullPageSize() int
}
