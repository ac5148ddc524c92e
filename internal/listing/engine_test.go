package listing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3sh/internal/errs"
	"s3sh/pkg/storage"
	"s3sh/pkg/storage/storagetest"
)

const bucket = "acme"

func newEngine(pageSize int) *Engine {
	return NewEngine(pageSize, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seed(b *storagetest.Backend, keys ...string) {
	for _, k := range keys {
		b.Put(bucket, k, []byte(k))
	}
}

func TestListDirectChildren(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "top.txt", "logs/a.log", "logs/b.log", "logs/2024/c.log", "img/x.png")

	children, err := newEngine(0).ListDirectChildren(context.Background(), b.NewClient(), bucket, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"img/", "logs/"}, children)

	children, err = newEngine(0).ListDirectChildren(context.Background(), b.NewClient(), bucket, "logs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/2024/"}, children)
}

func TestListObjects_AllPagesInOrder(t *testing.T) {
	b := storagetest.NewBackend()
	b.PageSize = 2
	seed(b, "d/1", "d/2", "d/3", "d/4", "d/5", "other")

	var keys []string
	total, err := newEngine(0).ListObjects(context.Background(), b.NewClient(), bucket, "d/", func(e storage.ObjectEntry) error {
		keys = append(keys, e.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"d/1", "d/2", "d/3", "d/4", "d/5"}, keys)
	assert.Equal(t, 3, b.ListCalls)
}

func TestListObjects_EmitErrorStopsWalk(t *testing.T) {
	b := storagetest.NewBackend()
	b.PageSize = 1
	seed(b, "a", "b", "c")

	stop := errors.New("stop")
	total, err := newEngine(0).ListObjects(context.Background(), b.NewClient(), bucket, "", func(storage.ObjectEntry) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, b.ListCalls)
}

func TestListObjects_ProviderFailureIsIO(t *testing.T) {
	b := storagetest.NewBackend()
	b.ListErr = errors.New("connection reset")

	_, err := newEngine(0).ListObjects(context.Background(), b.NewClient(), bucket, "", func(storage.ObjectEntry) error { return nil })
	assert.True(t, errs.IsIO(err))
}

func TestSearch_CountsMatches(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "a1.txt", "a2.txt", "b.txt")

	var matched []string
	res, err := newEngine(0).Search(context.Background(), b.NewClient(), bucket, "", `a\d`, func(e storage.ObjectEntry, n int) error {
		matched = append(matched, e.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, SearchResult{Matches: 2, Total: 3}, res)
	assert.Equal(t, []string{"a1.txt", "a2.txt"}, matched)
}

func TestSearch_KeyCanMatchSeveralTimes(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "a1a2a3.txt", "zzz")

	counts := map[string]int{}
	res, err := newEngine(0).Search(context.Background(), b.NewClient(), bucket, "", `a\d`, func(e storage.ObjectEntry, n int) error {
		counts[e.Key] = n
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Matches)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, map[string]int{"a1a2a3.txt": 3}, counts)
}

func TestSearch_InvalidPattern(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "x")

	_, err := newEngine(0).Search(context.Background(), b.NewClient(), bucket, "", `a(`, nil)
	assert.True(t, errors.Is(err, errs.ErrInvalidPattern))
	assert.Zero(t, b.ListCalls, "pattern is compiled before any page is fetched")
}

func TestSearch_ShortPageHeuristic(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "k1", "k2", "k3", "k4", "k5")
	client := &storagetest.Untruncated{Client: b.NewClient(), PageSize: 2}

	res, err := newEngine(1000).Search(context.Background(), client, bucket, "", `k`, nil)
	require.NoError(t, err)
	assert.Equal(t, SearchResult{Matches: 5, Total: 5}, res)
	assert.Equal(t, 3, b.ListCalls)
}

func TestSearch_ShortPageHeuristicExactMultiple(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "k1", "k2", "k3", "k4")
	client := &storagetest.Untruncated{Client: b.NewClient(), PageSize: 2}

	res, err := newEngine(0).Search(context.Background(), client, bucket, "", `k`, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, b.ListCalls, "a full last page needs one empty fetch to end")
}

func TestResolve(t *testing.T) {
	b := storagetest.NewBackend()
	seed(b, "reports/q1.csv", "reports/q1.csv.bak", "reports/q2.csv")
	e := newEngine(0)
	client := b.NewClient()

	entry, err := e.Resolve(context.Background(), client, bucket, "reports/q2.csv")
	require.NoError(t, err)
	assert.Equal(t, "reports/q2.csv", entry.Key)

	_, err = e.Resolve(context.Background(), client, bucket, "reports/q1")
	assert.True(t, errors.Is(err, errs.ErrAmbiguousPath))
	assert.Contains(t, err.Error(), "found 2 files")

	_, err = e.Resolve(context.Background(), client, bucket, "missing")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
