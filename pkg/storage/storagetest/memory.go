// File: pkg/storage/storagetest/memory.go

// Package storagetest provides an in-memory storage provider for tests.
package storagetest

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"s3sh/pkg/common"
	"s3sh/pkg/storage"
)

var ErrNoSuchKey = errors.New("storagetest: no such key")

type object struct {
	data     []byte
	modified time.Time
}

// Backend holds the buckets shared by every Client it creates
type Backend struct {
	mu      sync.Mutex
	buckets map[string]map[string]object

	// PageSize caps every listing page; zero means storage.DefaultPageSize
	PageSize int

	// Injected failures, returned by the matching operation when non-nil
	ListErr   error
	GetErr    error
	PutErr    error
	DeleteErr error
	// ReadErr is returned by object readers after ReadErrAfter bytes have been served
	ReadErr      error
	ReadErrAfter int

	ListCalls int
	Deleted   []string
	clients   []*Client
}

func NewBackend() *Backend {
	return &Backend{buckets: make(map[string]map[string]object)}
}

// Stores data under bucket/key
func (b *Backend) Put(bucket, key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buckets[bucket] == nil {
		b.buckets[bucket] = make(map[string]object)
	}
	b.buckets[bucket][key] = object{data: data, modified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

// Returns the stored bytes for bucket/key
func (b *Backend) Object(bucket, key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.buckets[bucket][key]
	return obj.data, ok
}

func (b *Backend) Keys(bucket string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedKeys(bucket)
}

func (b *Backend) sortedKeys(bucket string) []string {
	keys := make([]string, 0, len(b.buckets[bucket]))
	for k := range b.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Creates a new client handle bound to this backend
func (b *Backend) NewClient() *Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &Client{backend: b}
	b.clients = append(b.clients, c)
	return c
}

// Returns every client created so far, in creation order
func (b *Backend) Clients() []*Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Client(nil), b.clients...)
}

// Client implements storage.Client on top of a Backend
type Client struct {
	backend *Backend
	closed  bool
}

var _ storage.Client = (*Client)(nil)

func (c *Client) ProviderName() common.Provider {
	return common.Provider("memory")
}

func (c *Client) Closed() bool {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	return c.closed
}

type listItem struct {
	key    string
	prefix bool
}

func (c *Client) ListObjects(ctx context.Context, bucket string, opts storage.ListOptions) (storage.ListPage, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ListCalls++
	if b.ListErr != nil {
		return storage.ListPage{}, b.ListErr
	}

	var items []listItem
	seen := make(map[string]bool)
	for _, key := range b.sortedKeys(bucket) {
		if !strings.HasPrefix(key, opts.Prefix) {
			continue
		}
		if opts.Delimiter != "" {
			rest := strings.TrimPrefix(key, opts.Prefix)
			if i := strings.Index(rest, opts.Delimiter); i >= 0 {
				cp := opts.Prefix + rest[:i+len(opts.Delimiter)]
				if !seen[cp] {
					seen[cp] = true
					items = append(items, listItem{key: cp, prefix: true})
				}
				continue
			}
		}
		items = append(items, listItem{key: key})
	}

	pageSize := opts.MaxKeys
	if pageSize <= 0 || (b.PageSize > 0 && pageSize > b.PageSize) {
		pageSize = b.PageSize
	}
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}

	start := 0
	if opts.Cursor != "" {
		start = sort.Search(len(items), func(i int) bool { return items[i].key > opts.Cursor })
	}

	page := storage.ListPage{}
	end := min(start+pageSize, len(items))
	for _, it := range items[start:end] {
		if it.prefix {
			page.CommonPrefixes = append(page.CommonPrefixes, it.key)
			continue
		}
		obj := b.buckets[bucket][it.key]
		page.Entries = append(page.Entries, storage.ObjectEntry{
			Key:          it.key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		})
	}
	if end < len(items) {
		page.HasMore = true
		page.NextCursor = items[end-1].key
	}
	return page, nil
}

func (c *Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.GetErr != nil {
		return nil, 0, b.GetErr
	}
	obj, ok := b.buckets[bucket][key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s/%s", ErrNoSuchKey, bucket, key)
	}
	var r io.Reader = bytes.NewReader(obj.data)
	if b.ReadErr != nil {
		r = &failingReader{r: r, remaining: b.ReadErrAfter, err: b.ReadErr}
	}
	return io.NopCloser(r), int64(len(obj.data)), nil
}

func (c *Client) PutObject(ctx context.Context, bucket, key, localPath string) (string, error) {
	if c.backend.PutErr != nil {
		return "", c.backend.PutErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	c.backend.Put(bucket, key, data)

	sum := md5.Sum(data)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	delete(b.buckets[bucket], key)
	b.Deleted = append(b.Deleted, key)
	return nil
}

func (c *Client) Close() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.closed = true
	return nil
}

// Untruncated wraps a Client so that listings never report HasMore,
// forcing callers onto the short-page heuristic
type Untruncated struct {
	*Client
	PageSize int
}

var (
	_ storage.Client             = (*Untruncated)(nil)
	_ storage.PageSizeTerminated = (*Untruncated)(nil)
)

func (u *Untruncated) ListObjects(ctx context.Context, bucket string, opts storage.ListOptions) (storage.ListPage, error) {
	if opts.MaxKeys <= 0 {
		opts.MaxKeys = u.PageSize
	}
	page, err := u.Client.ListObjects(ctx, bucket, opts)
	page.HasMore = false
	if n := len(page.Entries); n > 0 {
		page.NextCursor = page.Entries[n-1].Key
	}
	return page, err
}

func (u *Untruncated) FullPageSize() int {
	return u.PageSize
}

type failingReader struct {
	r         io.Reader
	remaining int
	err       error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, f.err
	}
	if len(p) > f.remaining {
		p = p[:f.remaining]
	}
	n, err := f.r.Read(p)
	f.remaining -= n
	return n, err
}
