package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3sh/internal/errs"
	"s3sh/internal/listing"
	"s3sh/pkg/storage/storagetest"
)

const bucket = "acme"

type recorder struct {
	started   int
	advanced  []Progress
	completed []Job
	failed    []error
}

func (r *recorder) Started(Job)             { r.started++ }
func (r *recorder) Advanced(p Progress)     { r.advanced = append(r.advanced, p) }
func (r *recorder) Completed(j Job)         { r.completed = append(r.completed, j) }
func (r *recorder) Failed(_ Job, err error) { r.failed = append(r.failed, err) }

func newTestEngine(segments, bufferSize int) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(listing.NewEngine(0, logger), segments, bufferSize, logger)
}

func TestDownload_ProgressAndContent(t *testing.T) {
	b := storagetest.NewBackend()
	data := bytes.Repeat([]byte("0123456789abcdef"), 4096) // 64 KiB
	b.Put(bucket, "big/blob.bin", data)

	dest := filepath.Join(t.TempDir(), "nested", "dir", "blob.bin")
	rec := &recorder{}

	job, err := newTestEngine(64, 1024).Download(context.Background(), b.NewClient(), bucket, "big/blob.bin", dest, rec)
	require.NoError(t, err)

	assert.Equal(t, Succeeded, job.Status)
	assert.Equal(t, int64(len(data)), job.TotalBytes)
	assert.Equal(t, int64(len(data)), job.BytesTransferred)
	assert.Equal(t, 64, job.SegmentCount)

	assert.Equal(t, 1, rec.started)
	assert.GreaterOrEqual(t, len(rec.advanced), 63)
	require.Len(t, rec.completed, 1)
	assert.Empty(t, rec.failed)

	for i, p := range rec.advanced {
		assert.Equal(t, i+1, p.Segment)
		assert.LessOrEqual(t, p.Segment, p.Segments)
		if i > 0 {
			assert.Greater(t, p.Transferred, rec.advanced[i-1].Transferred)
		}
	}

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDownload_SmallObjectFewerEventsThanSegments(t *testing.T) {
	b := storagetest.NewBackend()
	b.Put(bucket, "tiny.txt", []byte("hello"))

	rec := &recorder{}
	dest := filepath.Join(t.TempDir(), "tiny.txt")
	job, err := newTestEngine(64, 1024).Download(context.Background(), b.NewClient(), bucket, "tiny.txt", dest, rec)
	require.NoError(t, err)

	assert.Equal(t, Succeeded, job.Status)
	assert.Len(t, rec.advanced, 1, "one buffer means at most one event")
	assert.Len(t, rec.completed, 1)
}

func TestDownload_ResolveFailures(t *testing.T) {
	b := storagetest.NewBackend()
	b.Put(bucket, "a/1.txt", []byte("1"))
	b.Put(bucket, "a/2.txt", []byte("2"))
	e := newTestEngine(0, 0)
	dir := t.TempDir()

	job, err := e.Download(context.Background(), b.NewClient(), bucket, "a/", filepath.Join(dir, "x"), nil)
	assert.True(t, errors.Is(err, errs.ErrAmbiguousPath))
	assert.Equal(t, Failed, job.Status)

	_, err = e.Download(context.Background(), b.NewClient(), bucket, "b/", filepath.Join(dir, "x"), nil)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, statErr := os.Stat(filepath.Join(dir, "x"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written before the path resolves")
}

func TestDownload_ReadFailureLeavesPartialFile(t *testing.T) {
	b := storagetest.NewBackend()
	b.Put(bucket, "f.bin", bytes.Repeat([]byte{1}, 10_000))
	b.ReadErr = errors.New("connection reset by peer")
	b.ReadErrAfter = 3000

	rec := &recorder{}
	dest := filepath.Join(t.TempDir(), "f.bin")
	job, err := newTestEngine(10, 1000).Download(context.Background(), b.NewClient(), bucket, "f.bin", dest, rec)

	require.Error(t, err)
	assert.True(t, errs.IsIO(err))
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Equal(t, Failed, job.Status)
	assert.Equal(t, int64(3000), job.BytesTransferred)
	assert.Len(t, rec.failed, 1)
	assert.Empty(t, rec.completed)

	info, statErr := os.Stat(dest)
	require.NoError(t, statErr)
	assert.Equal(t, int64(3000), info.Size())
}

func TestUploadKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"docs/report.pdf", "docs/report.pdf"},
		{"/docs/report.pdf", "docs/report.pdf"},
		{"docs/.", "docs/report.pdf"},
		{"docs.", "docs/report.pdf"},
		{"/docs/.", "docs/report.pdf"},
		{".", "report.pdf"},
		{"/.", "report.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			assert.Equal(t, tt.want, UploadKey(tt.remote, "/home/me/report.pdf"))
		})
	}
}

func TestUpload(t *testing.T) {
	b := storagetest.NewBackend()
	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0o644))

	res, err := newTestEngine(0, 0).Upload(context.Background(), b.NewClient(), bucket, local, "/inbox/.")
	require.NoError(t, err)
	assert.Equal(t, "inbox/notes.txt", res.Key)
	assert.Equal(t, "XUFAKrxLKna5cZ2REBfFkg==", res.Checksum)

	data, ok := b.Object(bucket, "inbox/notes.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
}

func TestUpload_Failures(t *testing.T) {
	b := storagetest.NewBackend()
	e := newTestEngine(0, 0)
	dir := t.TempDir()

	_, err := e.Upload(context.Background(), b.NewClient(), bucket, filepath.Join(dir, "missing"), "k")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = e.Upload(context.Background(), b.NewClient(), bucket, dir, "k")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))

	local := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o644))
	b.PutErr = errors.New("access denied")
	_, err = e.Upload(context.Background(), b.NewClient(), bucket, local, "k")
	assert.True(t, errs.IsIO(err))
}

func TestDelete_ExactKey(t *testing.T) {
	b := storagetest.NewBackend()
	b.Put(bucket, "logs/a", nil)
	b.Put(bucket, "logs/ab", nil)

	var deleted []string
	n, err := newTestEngine(0, 0).Delete(context.Background(), b.NewClient(), bucket, "logs/a", func(k string) { deleted = append(deleted, k) })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"logs/a"}, deleted)
	assert.Equal(t, []string{"logs/ab"}, b.Keys(bucket))
}

func TestDelete_ByPrefixAcrossPages(t *testing.T) {
	b := storagetest.NewBackend()
	b.PageSize = 2
	for _, k := range []string{"logs/1", "logs/2", "logs/3", "logs/4", "logs/5", "keep/1"} {
		b.Put(bucket, k, nil)
	}

	var deleted []string
	n, err := newTestEngine(0, 0).Delete(context.Background(), b.NewClient(), bucket, "logs/*", func(k string) { deleted = append(deleted, k) })
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"logs/1", "logs/2", "logs/3", "logs/4", "logs/5"}, deleted)
	assert.Equal(t, []string{"keep/1"}, b.Keys(bucket))
}

func TestDelete_FailureStopsAndReportsCount(t *testing.T) {
	b := storagetest.NewBackend()
	b.Put(bucket, "x/1", nil)
	b.DeleteErr = errors.New("forbidden")

	n, err := newTestEngine(0, 0).Delete(context.Background(), b.NewClient(), bucket, "x/*", nil)
	assert.True(t, errs.IsIO(err))
	assert.Zero(t, n)
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard("logs/*"))
	assert.True(t, IsWildcard("*"))
	assert.False(t, IsWildcard("logs/"))
}
