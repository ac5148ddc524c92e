package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3sh/internal/buckets"
	"s3sh/internal/errs"
	"s3sh/internal/listing"
	"s3sh/internal/session"
	"s3sh/internal/transfer"
	"s3sh/pkg/storage"
	"s3sh/pkg/storage/storagetest"
)

type profiles map[string]buckets.Profile

func (p profiles) Get(alias string) (buckets.Profile, bool) {
	profile, ok := p[alias]
	return profile, ok
}

type backendFactory struct {
	backend *storagetest.Backend
}

func (f backendFactory) NewClient(context.Context, buckets.Profile) (storage.Client, error) {
	return f.backend.NewClient(), nil
}

type usageClient struct {
	*storagetest.Client
	usage int64
	err   error
}

func (u usageClient) BucketUsage(context.Context, string) (int64, error) {
	return u.usage, u.err
}

type usageFactory struct {
	client usageClient
}

func (f usageFactory) NewClient(context.Context, buckets.Profile) (storage.Client, error) {
	return f.client, nil
}

func newTestService(t *testing.T, factory session.ClientFactory) (*ObjectService, *session.Session) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.New(profiles{"prod": {Alias: "prod", BucketName: "acme-prod"}}, factory, logger)
	lister := listing.NewEngine(storage.DefaultPageSize, logger)
	transfers := transfer.NewEngine(lister, transfer.DefaultSegments, transfer.DefaultBufferSize, logger)
	return NewObjectService(sess, lister, transfers, logger), sess
}

func selectProd(t *testing.T, sess *session.Session) {
	t.Helper()
	outcome, err := sess.SelectBucket(context.Background(), "prod")
	require.NoError(t, err)
	require.Equal(t, session.Selected, outcome)
}

func seededBackend() *storagetest.Backend {
	b := storagetest.NewBackend()
	b.Put("acme-prod", "logs/2024/a.log", []byte("aaa"))
	b.Put("acme-prod", "logs/2024/b.log", []byte("bbbb"))
	b.Put("acme-prod", "logs/readme.txt", []byte("r"))
	b.Put("acme-prod", "images/cat.png", []byte("meow"))
	return b
}

func TestObjectService_RequiresActiveBucket(t *testing.T) {
	svc, _ := newTestService(t, backendFactory{backend: seededBackend()})
	ctx := context.Background()

	_, err := svc.ListPaths(ctx, "")
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.ListObjects(ctx, "", func(storage.ObjectEntry) error { return nil })
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.Find(ctx, ".*", "", nil)
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.Download(ctx, "logs/readme.txt", "", nil)
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.Upload(ctx, "x", "y")
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.Delete(ctx, "logs/readme.txt", nil)
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
	_, err = svc.Usage(ctx)
	assert.True(t, errors.Is(err, errs.ErrNoActiveBucket))
}

func TestObjectService_ListPathsUsesPresentPath(t *testing.T) {
	svc, sess := newTestService(t, backendFactory{backend: seededBackend()})
	selectProd(t, sess)

	paths, err := svc.ListPaths(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"images/", "logs/"}, paths)

	sess.ChangeDirectory("logs")
	paths, err = svc.ListPaths(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/2024/"}, paths)
}

func TestObjectService_ListObjects(t *testing.T) {
	svc, sess := newTestService(t, backendFactory{backend: seededBackend()})
	selectProd(t, sess)

	var keys []string
	total, err := svc.ListObjects(context.Background(), "logs/", func(e storage.ObjectEntry) error {
		keys = append(keys, e.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"logs/2024/a.log", "logs/2024/b.log", "logs/readme.txt"}, keys)
}

func TestObjectService_Find(t *testing.T) {
	svc, sess := newTestService(t, backendFactory{backend: seededBackend()})
	selectProd(t, sess)

	var matched []string
	res, err := svc.Find(context.Background(), `\.log$`, "", func(e storage.ObjectEntry, _ int) error {
		matched = append(matched, e.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matches)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, []string{"logs/2024/a.log", "logs/2024/b.log"}, matched)

	_, err = svc.Find(context.Background(), "([", "", nil)
	assert.True(t, errors.Is(err, errs.ErrInvalidPattern))
}

func TestObjectService_DownloadDefaultsToWorkingDirectory(t *testing.T) {
	svc, sess := newTestService(t, backendFactory{backend: seededBackend()})
	selectProd(t, sess)

	dir := t.TempDir()
	t.Chdir(dir)

	res, err := svc.Download(context.Background(), "logs/2024/b.log", "", transfer.NopReporter{})
	require.NoError(t, err)
	assert.True(t, res.DefaultedLocalPath)
	assert.Equal(t, transfer.Succeeded, res.Job.Status)

	data, err := os.ReadFile(filepath.Join(".", "b.log"))
	require.NoError(t, err)
	assert.Equal(t, "bbbb", string(data))
}

func TestObjectService_DownloadExplicitPath(t *testing.T) {
	svc, sess := newTestService(t, backendFactory{backend: seededBackend()})
	selectProd(t, sess)

	dest := filepath.Join(t.TempDir(), "nested", "cat.png")
	res, err := svc.Download(context.Background(), "images/cat.png", dest, transfer.NopReporter{})
	require.NoError(t, err)
	assert.False(t, res.DefaultedLocalPath)
	assert.Equal(t, dest, res.Job.LocalPath)
}

func TestObjectService_UploadAndDelete(t *testing.T) {
	backend := seededBackend()
	svc, sess := newTestService(t, backendFactory{backend: backend})
	selectProd(t, sess)

	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o600))

	res, err := svc.Upload(context.Background(), src, "/docs/.")
	require.NoError(t, err)
	assert.Equal(t, "docs/notes.txt", res.Key)
	_, ok := backend.Object("acme-prod", "docs/notes.txt")
	assert.True(t, ok)

	var deleted []string
	n, err := svc.Delete(context.Background(), "logs/2024/*", func(bucket, key string) {
		deleted = append(deleted, bucket+"://"+key)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"acme-prod://logs/2024/a.log", "acme-prod://logs/2024/b.log"}, deleted)
}

func TestObjectService_Usage(t *testing.T) {
	backend := seededBackend()

	svc, sess := newTestService(t, backendFactory{backend: backend})
	selectProd(t, sess)
	_, err := svc.Usage(context.Background())
	assert.ErrorContains(t, err, "does not report bucket usage")

	svc, sess = newTestService(t, usageFactory{client: usageClient{Client: backend.NewClient(), usage: 2048}})
	selectProd(t, sess)
	usage, err := svc.Usage(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2048, usage)
}
